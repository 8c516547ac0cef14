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
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Can't open image %v: %v", path, err)
	}
	defer file.Close()

	img, imageFormat, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("Can't decode %v image %v: %v", imageFormat, path, err)
	}

	return img, nil
}

// Converts an image into pixels placed at offset.
// If size has a non zero component, the image is scaled first. A zero component keeps the aspect ratio.
// Pixels outside the canvas and fully transparent pixels are left out.
func imageToFrame(img image.Image, offset image.Point, size image.Point, cs canvasSize) frame {
	if size.X > 0 || size.Y > 0 {
		img = resize.Resize(uint(size.X), uint(size.Y), img, resize.Lanczos3)
	}

	rect := img.Bounds()
	array := imageToRGBAArray(img)

	f := make(frame, 0, rect.Dx()*rect.Dy())
	i := 0
	for iy := 0; iy < rect.Dy(); iy++ {
		for ix := 0; ix < rect.Dx(); ix++ {
			c := color{array[i], array[i+1], array[i+2], array[i+3]}
			i += 4

			x, y := offset.X+ix, offset.Y+iy
			if c.A == 0 || !cs.contains(x, y) {
				continue
			}
			f = append(f, pixel{X: x, Y: y, Color: c})
		}
	}

	return f
}
