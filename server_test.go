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
	"bufio"
	"fmt"
	"image"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// In-process pixelflut server used by the tests.
type testCanvasServer struct {
	sync.Mutex

	Listener net.Listener
	Size     canvasSize

	SizeAnswer string // Overrides the answer to SIZE if set

	Pixels      map[image.Point]color
	Received    int      // Number of draw commands
	Connections int      // Number of accepted connections
	Errors      []string // Lines that couldn't be handled

	conns []net.Conn
}

func newTestCanvasServer(t *testing.T, cs canvasSize) *testCanvasServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Can't listen: %v", err)
	}

	srv := &testCanvasServer{
		Listener: listener,
		Size:     cs,
		Pixels:   map[image.Point]color{},
	}

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			srv.Lock()
			srv.Connections++
			srv.conns = append(srv.conns, conn)
			srv.Unlock()
			go srv.handle(conn)
		}
	}()

	t.Cleanup(func() {
		listener.Close()
		srv.Lock()
		defer srv.Unlock()
		for _, conn := range srv.conns {
			conn.Close()
		}
		for _, e := range srv.Errors {
			t.Errorf("Test server couldn't handle %v", e)
		}
	})

	return srv
}

func (srv *testCanvasServer) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		// An unterminated line is a write cut off by closing the connection, it's ignored
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSuffix(line, "\n")
		fields := strings.Fields(line)

		switch {
		case len(fields) == 1 && fields[0] == "SIZE":
			srv.Lock()
			answer := srv.SizeAnswer
			if answer == "" {
				answer = fmt.Sprintf("SIZE %v %v", srv.Size.X, srv.Size.Y)
			}
			srv.Unlock()
			fmt.Fprintf(conn, "%v\n", answer)

		case len(fields) == 3 && fields[0] == "PX":
			x, errX := parseCoordinate(fields[1])
			y, errY := parseCoordinate(fields[2])
			if errX != nil || errY != nil {
				srv.addError(line)
				continue
			}
			c, _ := srv.getPixel(x, y)
			fmt.Fprintf(conn, "PX %v %v %v\n", x, y, c)

		case len(fields) == 4 && fields[0] == "PX":
			p, err := decodePixel(line)
			if err != nil {
				srv.addError(line)
				continue
			}
			srv.Lock()
			srv.Pixels[image.Point{p.X, p.Y}] = p.Color
			srv.Received++
			srv.Unlock()

		default:
			srv.addError(line)
		}
	}
}

func (srv *testCanvasServer) addError(line string) {
	srv.Lock()
	defer srv.Unlock()

	srv.Errors = append(srv.Errors, fmt.Sprintf("%q", line))
}

func (srv *testCanvasServer) getAddr() string {
	return srv.Listener.Addr().String()
}

// Returns the color at the given position, black if it was never set.
func (srv *testCanvasServer) getPixel(x, y int) (color, bool) {
	srv.Lock()
	defer srv.Unlock()

	c, ok := srv.Pixels[image.Point{x, y}]
	if !ok {
		return color{0, 0, 0, 255}, false
	}
	return c, true
}

func (srv *testCanvasServer) setPixel(x, y int, c color) {
	srv.Lock()
	defer srv.Unlock()

	srv.Pixels[image.Point{x, y}] = c
}

func (srv *testCanvasServer) getReceived() int {
	srv.Lock()
	defer srv.Unlock()

	return srv.Received
}

func (srv *testCanvasServer) getConnections() int {
	srv.Lock()
	defer srv.Unlock()

	return srv.Connections
}

// Polls until cond returns true, fails the test after the timeout.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Condition not met within %v", timeout)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
