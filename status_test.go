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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func Test_statusRouter(t *testing.T) {
	stats := newRunStats("noise", "localhost:1234")
	stats.addConnect()
	stats.addSent(10, 200)
	stats.setIteration(3)

	srv := httptest.NewServer(newStatusRouter(stats))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /status returned %v", resp.Status)
	}

	var snapshot runStatsSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatalf("Can't decode status: %v", err)
	}
	if snapshot.RunID != stats.RunID || snapshot.Mode != "noise" || snapshot.Endpoint != "localhost:1234" {
		t.Errorf("Unexpected run info %+v", snapshot)
	}
	if snapshot.Iteration != 3 || snapshot.PixelsSent != 10 || snapshot.BytesSent != 200 || snapshot.Connects != 1 {
		t.Errorf("Unexpected counters %+v", snapshot)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("GET /healthz returned %v", resp.Status)
	}
}
