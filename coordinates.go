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
	"fmt"
	"image"
)

type canvasSize image.Point // Width and height of the remote canvas in pixels

func (cs canvasSize) String() string {
	return fmt.Sprintf("%vx%v", cs.X, cs.Y)
}

// Returns the rectangle covered by the canvas, with the origin at 0, 0.
func (cs canvasSize) getRect() image.Rectangle {
	return image.Rect(0, 0, cs.X, cs.Y)
}

func (cs canvasSize) getPixelCount() int {
	return cs.X * cs.Y
}

func (cs canvasSize) isEmpty() bool {
	return cs.X <= 0 || cs.Y <= 0
}

// Returns true if the pixel position is on the canvas.
func (cs canvasSize) contains(x, y int) bool {
	return image.Point{x, y}.In(cs.getRect())
}

// Splits n elements into parts of at most partSize elements.
// The returned ranges are half open [start, end) and cover all n elements in order.
func splitRanges(n, partSize int) [][2]int {
	if n <= 0 || partSize <= 0 {
		return nil
	}

	ranges := make([][2]int, 0, divideCeil(n, partSize))
	for start := 0; start < n; start += partSize {
		end := start + partSize
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}

	return ranges
}
