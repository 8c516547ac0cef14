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
	"math/rand"
	"testing"
)

func Test_blendColors(t *testing.T) {
	tests := []struct {
		c1, c2, want color
	}{
		{color{200, 200, 200, 200}, color{10, 10, 10, 10}, color{105, 105, 105, 105}},
		{color{255, 255, 255, 255}, color{255, 255, 255, 255}, color{255, 255, 255, 255}},
		{color{1, 0, 255, 3}, color{2, 0, 0, 0}, color{1, 0, 127, 1}},
	}

	for _, test := range tests {
		if got := blendColors(test.c1, test.c2); got != test.want {
			t.Errorf("blendColors(%v, %v) = %v, want %v", test.c1, test.c2, got, test.want)
		}
	}
}

func Test_sliceColor(t *testing.T) {
	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 0},
		{3, 4, 7},
		{254, 0, 254},
		{254, 1, 0},
		{1000, 720, 190},
	}

	for _, test := range tests {
		want := color{test.want, test.want, test.want, test.want}
		if got := sliceColor(test.x, test.y); got != want {
			t.Errorf("sliceColor(%v, %v) = %v, want %v", test.x, test.y, got, want)
		}
	}

	if sliceColor(3, 4) != sliceColor(3, 4) {
		t.Errorf("sliceColor(3, 4) isn't deterministic")
	}
}

func Test_positionalPatternColor(t *testing.T) {
	if a, b := positionalPatternColor(3, 4, 0), positionalPatternColor(3, 4, 0); a != b {
		t.Errorf("positionalPatternColor(3, 4, 0) returned %v and %v", a, b)
	}

	if got, want := positionalPatternColor(3, 4, 0), (color{25, 25, 34, 255}); got != want {
		t.Errorf("positionalPatternColor(3, 4, 0) = %v, want %v", got, want)
	}

	if a, b := positionalPatternColor(3, 4, 0), positionalPatternColor(3, 4, 1); a == b {
		t.Errorf("positionalPatternColor(3, 4, _) doesn't change with the iteration")
	}

	grey := true
	for x := 0; x < 16 && grey; x++ {
		for y := 0; y < 16; y++ {
			c := positionalPatternColor(x, y, 5)
			if c.R != c.G || c.G != c.B {
				grey = false
				break
			}
		}
	}
	if grey {
		t.Errorf("positionalPatternColor only produces grey colors")
	}
}

func Test_randomColor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		if c := randomColor(rng, false); c.A != 255 {
			t.Fatalf("randomColor(rng, false) = %v, want opaque color", c)
		}
	}

	transparent := false
	for i := 0; i < 100; i++ {
		if c := randomColor(rng, true); c.A != 255 {
			transparent = true
		}
	}
	if !transparent {
		t.Errorf("randomColor(rng, true) never returned a random alpha value")
	}
}
