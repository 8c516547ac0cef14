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
	"math/rand"
)

// Returns the color of the pixel at x, y for the current frame.
type colorFunc func(x, y int) (color, error)

// One of the mode* types below. The set is closed, the driver handles each of them.
type drawMode interface {
	getModeName() string
}

// A mode that draws a new frame every iteration until it is interrupted.
type liveMode interface {
	drawMode

	// Returns the color function of one frame. Per frame state (like a background color) is created here.
	frameColorer(iteration int, rng *rand.Rand) colorFunc
}

type (
	// Every pixel in one fixed color
	modeWipe struct {
		Color color
	}

	modeNoise struct{} // Random colors with random alpha
	modeFill  struct{} // One random opaque color per frame
	modeBlend struct{} // Noise blended with a per frame background color

	// Colors from user supplied channel expressions
	modePatternFormula struct {
		Formula *formula
	}

	modePatternPositional struct{} // Animated gradient
	modeSlice             struct{} // Diagonal grey bands, drawn once

	// Reads the whole canvas and stores it
	modeCapture struct {
		SavePNG bool // Also store the capture as PNG image
	}

	// Draws a previously captured pixmap once
	modeReplay struct {
		Source string
	}

	// Draws an image file once
	modeImage struct {
		Path   string
		Offset image.Point
		Size   image.Point // Scale to this size, 0 components keep the aspect ratio. 0, 0 doesn't scale
	}
)

func (modeWipe) getModeName() string              { return "wipe" }
func (modeNoise) getModeName() string             { return "noise" }
func (modeFill) getModeName() string              { return "fill" }
func (modeBlend) getModeName() string             { return "blend" }
func (modePatternFormula) getModeName() string    { return "formula" }
func (modePatternPositional) getModeName() string { return "pattern" }
func (modeSlice) getModeName() string             { return "slice" }
func (modeCapture) getModeName() string           { return "capture" }
func (modeReplay) getModeName() string            { return "replay" }
func (modeImage) getModeName() string             { return "image" }

func (m modeWipe) frameColorer(iteration int, rng *rand.Rand) colorFunc {
	return func(x, y int) (color, error) {
		return m.Color, nil
	}
}

func (modeNoise) frameColorer(iteration int, rng *rand.Rand) colorFunc {
	return func(x, y int) (color, error) {
		return randomColor(rng, true), nil
	}
}

func (modeFill) frameColorer(iteration int, rng *rand.Rand) colorFunc {
	background := randomColor(rng, false)
	return func(x, y int) (color, error) {
		return background, nil
	}
}

func (modeBlend) frameColorer(iteration int, rng *rand.Rand) colorFunc {
	background := randomColor(rng, false)
	return func(x, y int) (color, error) {
		return blendColors(randomColor(rng, true), background), nil
	}
}

func (m modePatternFormula) frameColorer(iteration int, rng *rand.Rand) colorFunc {
	return func(x, y int) (color, error) {
		return m.Formula.color(x, y, iteration)
	}
}

func (modePatternPositional) frameColorer(iteration int, rng *rand.Rand) colorFunc {
	return func(x, y int) (color, error) {
		return positionalPatternColor(x, y, iteration), nil
	}
}
