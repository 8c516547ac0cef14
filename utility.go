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
	"image"
	imgcolor "image/color"
	"regexp"
)

var unsafeNameChars = regexp.MustCompile("[^a-zA-Z0-9\\-\\.]+")

// Integer division that rounds to the next integer towards negative infinity
func divideFloor(a, b int) int {
	temp := a / b

	if ((a ^ b) < 0) && (a%b != 0) {
		return temp - 1
	}

	return temp
}

// Integer division that rounds to the next integer towards positive infinity
func divideCeil(a, b int) int {
	temp := a / b

	if ((a ^ b) >= 0) && (a%b != 0) {
		return temp + 1
	}

	return temp
}

// Modulo that has the sign of the divisor, so for positive b the result is always in [0, b)
func modFloor(a, b int) int {
	return a - divideFloor(a, b)*b
}

// Replaces everything that isn't safe to use in a file name
func sanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// Converts any image to an RGBA array, row by row starting at the top left corner
func imageToRGBAArray(img image.Image) []byte {
	rect := img.Bounds()

	switch img := img.(type) {
	case *image.NRGBA:
		// Rows are contiguous, so the pixel data can be used directly
		if img.Stride == rect.Dx()*4 {
			return img.Pix[:rect.Dx()*rect.Dy()*4]
		}
	}

	array := make([]byte, rect.Dx()*rect.Dy()*4)

	i := 0
	for iy := rect.Min.Y; iy < rect.Max.Y; iy++ {
		for ix := rect.Min.X; ix < rect.Max.X; ix++ {
			c := imgcolor.NRGBAModel.Convert(img.At(ix, iy)).(imgcolor.NRGBA)
			array[i] = c.R
			i++
			array[i] = c.G
			i++
			array[i] = c.B
			i++
			array[i] = c.A
			i++
		}
	}

	return array
}
