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
	"image"
	imgcolor "image/color"
	"math/rand"
	"time"
)

// Resolved configuration of a run. It isn't modified after it has been created.
type drawConfig struct {
	Endpoint    string
	Size        canvasSize // Used unless DynamicSize is set
	DynamicSize bool       // Query the canvas size from the server

	Mode drawMode

	ReconnectPerFrame bool // Open a new connection for every frame of live modes
	Writers           int  // Number of concurrent writers per frame, 1 writes sequentially
	ChunkBytes        int
	DialTimeout       time.Duration
	ReadTimeout       time.Duration

	Store pixmapStore
	Seed  int64 // Seed of the random color generators, 0 uses the current time
}

type driver struct {
	Config drawConfig
	Stats  *runStats

	CapturePath string // Path of the last stored capture

	rng *rand.Rand
}

func newDriver(cfg drawConfig, stats *runStats) *driver {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if stats == nil {
		stats = newRunStats(cfg.Mode.getModeName(), cfg.Endpoint)
	}

	return &driver{
		Config: cfg,
		Stats:  stats,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Computes the color of every canvas position, column by column.
// The pixels are appended to dst.
func buildFrame(dst frame, cs canvasSize, fn colorFunc) (frame, error) {
	for x := 0; x < cs.X; x++ {
		for y := 0; y < cs.Y; y++ {
			c, err := fn(x, y)
			if err != nil {
				return dst, fmt.Errorf("Can't compute color at %v, %v: %w", x, y, err)
			}
			dst = append(dst, pixel{X: x, Y: y, Color: c})
		}
	}

	return dst, nil
}

// Connects to the endpoint. The session is closed when ctx is cancelled, which aborts blocked writes.
// The returned function closes the session.
func (d *driver) openSession(ctx context.Context) (*session, func(), error) {
	s, err := connect(ctx, d.Config.Endpoint, sessionOptions{
		DialTimeout: d.Config.DialTimeout,
		ReadTimeout: d.Config.ReadTimeout,
		ChunkBytes:  d.Config.ChunkBytes,
		Stats:       d.Stats,
	})
	if err != nil {
		return nil, nil, err
	}

	stop := context.AfterFunc(ctx, s.Close)

	return s, func() {
		stop()
		s.Close()
	}, nil
}

func (d *driver) resolveSize(s *session) (canvasSize, error) {
	if !d.Config.DynamicSize {
		return d.Config.Size, nil
	}

	cs, err := s.querySize()
	if err != nil {
		return canvasSize{}, fmt.Errorf("Can't get canvas size: %w", err)
	}
	if cs.isEmpty() {
		return canvasSize{}, fmt.Errorf("%w: server reported empty canvas %v", errMalformedSizeResponse, cs)
	}
	log.Infof("Canvas size: %v", cs)

	return cs, nil
}

func (d *driver) draw(s *session, f frame) error {
	if d.Config.Writers > 1 {
		return s.drawFrameParallel(f, d.Config.Writers)
	}
	return s.drawFrame(f)
}

// Runs the configured mode.
// Live modes only return on errors or when ctx is cancelled, an interruption is not an error.
func (d *driver) run(ctx context.Context) error {
	log.Infof("Drawing in %v mode to %v", d.Config.Mode.getModeName(), d.Config.Endpoint)

	var err error
	switch m := d.Config.Mode.(type) {
	case liveMode:
		err = d.runLive(ctx, m)
	case modeSlice:
		err = d.runSlice(ctx)
	case modeCapture:
		err = d.runCapture(ctx, m)
	case modeReplay:
		err = d.runReplay(ctx, m)
	case modeImage:
		err = d.runImage(ctx, m)
	default:
		err = fmt.Errorf("Unknown draw mode %T", m)
	}

	if err != nil && ctx.Err() != nil {
		log.Debugf("Interrupted: %v", err)
		return nil
	}

	return err
}

func (d *driver) runLive(ctx context.Context, m liveMode) error {
	s, release, err := d.openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if release != nil {
			release()
		}
	}()

	cs, err := d.resolveSize(s)
	if err != nil {
		return err
	}

	var f frame
	for iteration := 0; ctx.Err() == nil; iteration++ {
		log.Debugf("Iteration %v", iteration)

		// Every pixel is computed before anything is sent
		f, err = buildFrame(f[:0], cs, m.frameColorer(iteration, d.rng))
		if err != nil {
			return fmt.Errorf("Can't build frame of iteration %v: %w", iteration, err)
		}

		if s == nil {
			if s, release, err = d.openSession(ctx); err != nil {
				return err
			}
		}

		if err := d.draw(s, f); err != nil {
			return err
		}
		d.Stats.setIteration(iteration + 1)

		if d.Config.ReconnectPerFrame {
			release()
			s, release = nil, nil
		}
	}

	return nil
}

func (d *driver) runSlice(ctx context.Context) error {
	s, release, err := d.openSession(ctx)
	if err != nil {
		return err
	}
	defer release()

	cs, err := d.resolveSize(s)
	if err != nil {
		return err
	}

	f, err := buildFrame(nil, cs, func(x, y int) (color, error) { return sliceColor(x, y), nil })
	if err != nil {
		return err
	}

	return d.draw(s, f)
}

// Reads every pixel of the canvas and stores the snapshot.
func (d *driver) runCapture(ctx context.Context, m modeCapture) error {
	s, release, err := d.openSession(ctx)
	if err != nil {
		return err
	}
	defer release()

	cs, err := s.querySize()
	if err != nil {
		return fmt.Errorf("Can't get canvas size: %w", err)
	}
	log.Infof("Capturing canvas of size %v", cs)

	f := make(frame, 0, cs.getPixelCount())
	img := image.NewNRGBA(cs.getRect())
	for x := 0; x < cs.X; x++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for y := 0; y < cs.Y; y++ {
			p, err := s.readPixelAt(x, y)
			if err != nil {
				return fmt.Errorf("Can't capture pixel at %v, %v: %w", x, y, err)
			}
			f = append(f, p)
			img.SetNRGBA(x, y, imgcolor.NRGBA{p.Color.R, p.Color.G, p.Color.B, p.Color.A})
		}
	}

	path, err := d.Config.Store.save("capture", f)
	if err != nil {
		return err
	}
	d.CapturePath = path
	log.Infof("Stored capture of %v pixels in %v", len(f), path)

	if m.SavePNG {
		pngPath, err := d.Config.Store.savePNG(path, img)
		if err != nil {
			return err
		}
		log.Infof("Stored capture image in %v", pngPath)
	}

	return nil
}

func (d *driver) runReplay(ctx context.Context, m modeReplay) error {
	f, err := d.Config.Store.load(m.Source)
	if err != nil {
		return err
	}

	s, release, err := d.openSession(ctx)
	if err != nil {
		return err
	}
	defer release()

	log.Infof("Replaying %v pixels from %v", len(f), m.Source)

	return d.draw(s, f)
}

func (d *driver) runImage(ctx context.Context, m modeImage) error {
	img, err := loadImage(m.Path)
	if err != nil {
		return err
	}

	s, release, err := d.openSession(ctx)
	if err != nil {
		return err
	}
	defer release()

	cs, err := d.resolveSize(s)
	if err != nil {
		return err
	}

	f := imageToFrame(img, m.Offset, m.Size, cs)
	log.Infof("Drawing %v pixels of %v at %v", len(f), m.Path, m.Offset)

	return d.draw(s, f)
}
