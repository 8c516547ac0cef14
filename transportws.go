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
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Emulates a byte stream over a websocket connection.
// Every write is sent as a single text message, incoming messages are concatenated.
type websocketTransport struct {
	Conn *websocket.Conn

	reader io.Reader // Reader of the current message, nil if there is none

	ClosedMutex sync.Mutex
	Closed      bool
}

func dialWebsocket(ctx context.Context, u string) (transport, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	return &websocketTransport{Conn: c}, nil
}

func (wst *websocketTransport) Read(p []byte) (int, error) {
	for {
		if wst.reader == nil {
			messageType, r, err := wst.Conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
				continue
			}
			wst.reader = r
		}

		n, err := wst.reader.Read(p)
		if err == io.EOF {
			// Message is finished, continue with the next one
			wst.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (wst *websocketTransport) Write(p []byte) (int, error) {
	if err := wst.Conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (wst *websocketTransport) SetReadDeadline(t time.Time) error {
	return wst.Conn.SetReadDeadline(t)
}

// Sends a close message and closes the underlying connection.
func (wst *websocketTransport) Close() error {
	wst.ClosedMutex.Lock()
	defer wst.ClosedMutex.Unlock()
	if wst.Closed {
		return nil
	}
	wst.Closed = true

	wst.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))

	return wst.Conn.Close()
}
