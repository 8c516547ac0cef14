/*  D3pixelbot - Custom client, recorder and bot for pixel drawing games
    Copyright (C) 2019  David Vogel

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.  */

package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/mdns"
)

const mdnsDefaultTimeout = 3 * time.Second

// Browses the local network for the given service (e.g. "_pixelflut._tcp") and connects via TCP to the first server found.
func dialMDNS(ctx context.Context, service string) (transport, error) {
	address, err := lookupMDNS(ctx, service)
	if err != nil {
		return nil, err
	}

	log.Debugf("Discovered %v at %v", service, address)

	return dialTCP(ctx, address)
}

func lookupMDNS(ctx context.Context, service string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	timeout := mdnsDefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline) / 2 // Leave the rest for connecting
		if timeout <= 0 {
			return "", context.DeadlineExceeded
		}
	}

	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			select {
			case found <- net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)):
			default:
			}
		}
	}()

	params := mdns.DefaultParams(service)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return "", fmt.Errorf("Can't browse for %v: %v", service, err)
	}

	select {
	case address := <-found:
		return address, nil
	default:
		return "", fmt.Errorf("Found no %v service within %v", service, timeout)
	}
}
