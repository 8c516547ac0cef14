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
	"errors"
	"testing"
	"time"
)

func Test_lookupMDNS_expiredContext(t *testing.T) {
	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	nearlyExpired, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()

	for _, ctx := range []context.Context{expired, nearlyExpired} {
		start := time.Now()
		if _, err := lookupMDNS(ctx, "_pixelflut._tcp"); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("lookupMDNS() error = %v, want context.DeadlineExceeded", err)
		}
		if d := time.Since(start); d > time.Second {
			t.Errorf("lookupMDNS() took %v with an expired context", d)
		}
	}

	canceled, cancel3 := context.WithCancel(context.Background())
	cancel3()
	if _, err := dialMDNS(canceled, "_pixelflut._tcp"); !errors.Is(err, context.Canceled) {
		t.Errorf("dialMDNS() error = %v, want context.Canceled", err)
	}
}
