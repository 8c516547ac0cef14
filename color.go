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

import "math/rand"

// Channels are reduced modulo this value, so no generated channel reaches 255.
const channelModulus = 255

// Returns a color with uniformly distributed channels.
// Alpha is only random if includeAlpha is set, otherwise the color is opaque.
func randomColor(rng *rand.Rand, includeAlpha bool) color {
	v := rng.Uint32()
	c := color{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: 255,
	}
	if includeAlpha {
		c.A = uint8(v >> 24)
	}
	return c
}

// Averages two colors channel by channel, rounding towards zero.
func blendColors(c1, c2 color) color {
	avg := func(a, b uint8) uint8 { return uint8((uint16(a) + uint16(b)) / 2) }

	return color{
		R: avg(c1.R, c2.R),
		G: avg(c1.G, c2.G),
		B: avg(c1.B, c2.B),
		A: avg(c1.A, c2.A),
	}
}

// Animated gradient, every channel moves with a different speed.
func positionalPatternColor(x, y, iteration int) color {
	base := x*x + y*y

	return color{
		R: uint8(modFloor(base+2*iteration, channelModulus)),
		G: uint8(modFloor(base+iteration, channelModulus)),
		B: uint8(modFloor(base+3*x, channelModulus)),
		A: 255,
	}
}

// Diagonal grey bands, including alpha.
func sliceColor(x, y int) color {
	v := uint8(modFloor(x+y, channelModulus))
	return color{v, v, v, v}
}
