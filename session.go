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
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultChunkBytes = 64 * 1024 // Maximum size of a single write

type sessionOptions struct {
	DialTimeout time.Duration // Limits connecting, 0 means no limit
	ReadTimeout time.Duration // Limits waiting for answers of size and pixel queries, 0 means no limit
	ChunkBytes  int           // Upper limit of bytes per write, only exceeded by a single command

	Stats *runStats // Optional
}

// A connection to a pixelflut canvas.
//
// All writes are serialized by the embedded mutex, and every write contains only complete commands.
// So commands of concurrent writers never interleave.
type session struct {
	sync.Mutex

	Endpoint string
	Options  sessionOptions

	Transport transport
	Reader    *bufio.Reader
	Buffer    []byte // Encoding buffer of drawFrame, reused between frames

	ClosedMutex sync.RWMutex
	Closed      bool
}

// Opens a connection to the given endpoint.
// Failures are returned as connection errors, there is no retry.
func connect(ctx context.Context, endpoint string, opts sessionOptions) (*session, error) {
	if opts.ChunkBytes <= 0 {
		opts.ChunkBytes = defaultChunkBytes
	}

	t, err := dialEndpoint(ctx, endpoint, opts.DialTimeout)
	if err != nil {
		return nil, err
	}

	if opts.Stats != nil {
		opts.Stats.addConnect()
	}

	return newSession(endpoint, t, opts), nil
}

func newSession(endpoint string, t transport, opts sessionOptions) *session {
	if opts.ChunkBytes <= 0 {
		opts.ChunkBytes = defaultChunkBytes
	}

	return &session{
		Endpoint:  endpoint,
		Options:   opts,
		Transport: t,
		Reader:    bufio.NewReader(t),
	}
}

func (s *session) isClosed() bool {
	s.ClosedMutex.RLock()
	defer s.ClosedMutex.RUnlock()

	return s.Closed
}

// Writes all bytes, short writes are continued.
// The caller must hold the session lock.
func (s *session) writeAll(b []byte) error {
	if s.isClosed() {
		return errSessionClosed
	}

	for len(b) > 0 {
		n, err := s.Transport.Write(b)
		if err != nil {
			return connectionError("write to "+s.Endpoint, err)
		}
		if n == 0 {
			return connectionError("write to "+s.Endpoint, io.ErrShortWrite)
		}
		b = b[n:]
	}

	return nil
}

// Sends a request and reads the one line answer.
// The caller must hold the session lock.
func (s *session) request(req []byte) (string, error) {
	if err := s.writeAll(req); err != nil {
		return "", err
	}

	if s.Options.ReadTimeout > 0 {
		if err := s.Transport.SetReadDeadline(time.Now().Add(s.Options.ReadTimeout)); err != nil {
			return "", connectionError("set read deadline on "+s.Endpoint, err)
		}
		defer s.Transport.SetReadDeadline(time.Time{})
	}

	line, err := s.Reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			// Some servers close the connection right after the answer, without newline
			return line, nil
		}
		return "", connectionError("read from "+s.Endpoint, err)
	}

	return line, nil
}

// Asks the server for the canvas size.
func (s *session) querySize() (canvasSize, error) {
	s.Lock()
	defer s.Unlock()

	line, err := s.request(encodeSizeQuery())
	if err != nil {
		return canvasSize{}, err
	}

	return decodeSizeResponse(line)
}

// Asks the server for the color at the given position.
func (s *session) readPixelAt(x, y int) (pixel, error) {
	s.Lock()
	defer s.Unlock()

	line, err := s.request(encodePixelQuery(x, y))
	if err != nil {
		return pixel{}, err
	}

	p, err := decodePixel(line)
	if err != nil {
		return pixel{}, err
	}
	if p.X != x || p.Y != y {
		return pixel{}, fmt.Errorf("%w: answer %q is for %v, %v instead of %v, %v", errMalformedPixelRecord, line, p.X, p.Y, x, y)
	}

	return p, nil
}

// Encodes pixels into buf and writes them in chunks of whole commands.
// The lock is only held while writing, so concurrent callers interleave at command granularity.
func (s *session) streamPixels(ctx context.Context, pixels []pixel, buf []byte) ([]byte, error) {
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.Lock()
		err := s.writeAll(buf)
		s.Unlock()
		if err != nil {
			return err
		}

		if s.Options.Stats != nil {
			s.Options.Stats.addSent(0, len(buf))
		}
		buf = buf[:0]
		return nil
	}

	buf = buf[:0]
	for _, p := range pixels {
		before := len(buf)
		buf = appendPixel(buf, p)
		if len(buf) > s.Options.ChunkBytes && before > 0 {
			// Write everything before the command that didn't fit
			command := append([]byte(nil), buf[before:]...)
			buf = buf[:before]
			if err := flush(); err != nil {
				return buf, err
			}
			buf = append(buf, command...)
		}
	}
	if err := flush(); err != nil {
		return buf, err
	}

	if s.Options.Stats != nil {
		s.Options.Stats.addSent(len(pixels), 0)
	}

	return buf, nil
}

// Writes all pixels of the frame to the canvas.
// A write error aborts the frame, remaining pixels are not sent.
//
// Don't call drawFrame concurrently, it reuses the session's encoding buffer. Use drawFrameParallel instead.
func (s *session) drawFrame(f frame) error {
	buf, err := s.streamPixels(context.Background(), f, s.Buffer)
	s.Buffer = buf
	if err != nil {
		return fmt.Errorf("Can't draw frame of %v pixels: %w", len(f), err)
	}

	return nil
}

// Like drawFrame, but the frame is split over several goroutines that share the connection.
// The first error stops all writers.
func (s *session) drawFrameParallel(f frame, writers int) error {
	if writers <= 1 || len(f) < writers {
		return s.drawFrame(f)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, r := range splitRanges(len(f), divideCeil(len(f), writers)) {
		part := f[r[0]:r[1]]
		g.Go(func() error {
			_, err := s.streamPixels(ctx, part, make([]byte, 0, s.Options.ChunkBytes))
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("Can't draw frame of %v pixels with %v writers: %w", len(f), writers, err)
	}

	return nil
}

// Closes the transport, unsent data is discarded.
func (s *session) Close() {
	s.ClosedMutex.Lock()
	defer s.ClosedMutex.Unlock()
	if s.Closed {
		return
	}
	s.Closed = true

	s.Transport.Close()
}
