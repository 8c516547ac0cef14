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
	"io"
	"net"
	"strings"
	"time"
)

// A bidirectional byte stream to a pixelflut server.
// net.Conn satisfies it, other transports have to emulate a stream.
type transport interface {
	io.ReadWriteCloser

	SetReadDeadline(t time.Time) error
}

type transportType struct {
	Name string

	FunctionDial func(ctx context.Context, address string) (transport, error)
}

// Transports by URL scheme. Endpoints without scheme use "tcp".
var transportTypes = map[string]transportType{}

func init() {
	transportTypes["tcp"] = transportType{
		Name:         "TCP",
		FunctionDial: dialTCP,
	}
	transportTypes["ws"] = transportType{
		Name:         "WebSocket",
		FunctionDial: dialWebsocket,
	}
	transportTypes["wss"] = transportType{
		Name:         "WebSocket (TLS)",
		FunctionDial: dialWebsocket,
	}
	transportTypes["mdns"] = transportType{
		Name:         "mDNS discovered TCP",
		FunctionDial: dialMDNS,
	}
}

// Splits an endpoint into its scheme and the address that is given to the transport.
// Websocket endpoints keep their complete URL as address.
func parseEndpoint(endpoint string) (scheme, address string, err error) {
	if endpoint == "" {
		return "", "", fmt.Errorf("Empty endpoint")
	}

	i := strings.Index(endpoint, "://")
	if i < 0 {
		return "tcp", endpoint, nil
	}

	scheme, address = strings.ToLower(endpoint[:i]), endpoint[i+3:]
	if _, ok := transportTypes[scheme]; !ok {
		return "", "", fmt.Errorf("Unknown transport %q in endpoint %v", scheme, endpoint)
	}
	if address == "" {
		return "", "", fmt.Errorf("Endpoint %v has no address", endpoint)
	}
	if scheme == "ws" || scheme == "wss" {
		address = endpoint
	}

	return scheme, address, nil
}

func dialTCP(ctx context.Context, address string) (transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Opens a transport to the given endpoint.
// Any failure is returned as connection error, there are no retries.
func dialEndpoint(ctx context.Context, endpoint string, timeout time.Duration) (transport, error) {
	scheme, address, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, connectionError("parse endpoint", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t, err := transportTypes[scheme].FunctionDial(ctx, address)
	if err != nil {
		return nil, connectionError(fmt.Sprintf("connect to %v via %v", address, transportTypes[scheme].Name), err)
	}

	return t, nil
}
