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
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Counters of a single run. All counters must be accessed atomically.
type runStats struct {
	Iteration  uint64 // Number of completed frames
	PixelsSent uint64
	BytesSent  uint64
	Connects   uint64

	RunID     string
	Mode      string
	Endpoint  string
	StartTime time.Time
}

type runStatsSnapshot struct {
	RunID      string    `json:"runId"`
	Mode       string    `json:"mode"`
	Endpoint   string    `json:"endpoint"`
	StartTime  time.Time `json:"startTime"`
	Uptime     string    `json:"uptime"`
	Iteration  uint64    `json:"iteration"`
	PixelsSent uint64    `json:"pixelsSent"`
	BytesSent  uint64    `json:"bytesSent"`
	Connects   uint64    `json:"connects"`
}

func newRunStats(mode, endpoint string) *runStats {
	return &runStats{
		RunID:     uuid.NewString(),
		Mode:      mode,
		Endpoint:  endpoint,
		StartTime: time.Now(),
	}
}

func (rs *runStats) addSent(pixels, bytes int) {
	atomic.AddUint64(&rs.PixelsSent, uint64(pixels))
	atomic.AddUint64(&rs.BytesSent, uint64(bytes))
}

func (rs *runStats) addConnect() {
	atomic.AddUint64(&rs.Connects, 1)
}

func (rs *runStats) setIteration(iteration int) {
	atomic.StoreUint64(&rs.Iteration, uint64(iteration))
}

func (rs *runStats) getSnapshot() runStatsSnapshot {
	return runStatsSnapshot{
		RunID:      rs.RunID,
		Mode:       rs.Mode,
		Endpoint:   rs.Endpoint,
		StartTime:  rs.StartTime,
		Uptime:     time.Since(rs.StartTime).Round(time.Second).String(),
		Iteration:  atomic.LoadUint64(&rs.Iteration),
		PixelsSent: atomic.LoadUint64(&rs.PixelsSent),
		BytesSent:  atomic.LoadUint64(&rs.BytesSent),
		Connects:   atomic.LoadUint64(&rs.Connects),
	}
}
