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
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	commandPixel = "PX"
	commandSize  = "SIZE"

	hexDigits = "0123456789ABCDEF"
)

type color struct {
	R, G, B, A uint8
}

// A single pixel of the remote canvas. Pixels are values, they are copied and never shared.
type pixel struct {
	X, Y  int
	Color color
}

// A batch of pixels computed for one iteration. It only lives until it's written to the transport.
type frame []pixel

// Returns the RGBA color as it is used by the image package.
func (c color) RGBA() (r, g, b, a uint32) {
	r, g, b, a = uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A)
	return r | r<<8, g | g<<8, b | b<<8, a | a<<8
}

func (c color) String() string {
	return string(appendColorHex(nil, c))
}

func (p pixel) String() string {
	return strings.TrimSuffix(string(encodePixel(p)), "\n")
}

func appendColorHex(dst []byte, c color) []byte {
	for _, ch := range [4]uint8{c.R, c.G, c.B, c.A} {
		dst = append(dst, hexDigits[ch>>4], hexDigits[ch&0x0F])
	}
	return dst
}

// Appends the draw command of the given pixel to dst.
// The color is always written with all 4 channels.
func appendPixel(dst []byte, p pixel) []byte {
	dst = append(dst, commandPixel...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(p.X), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(p.Y), 10)
	dst = append(dst, ' ')
	dst = appendColorHex(dst, p.Color)
	return append(dst, '\n')
}

// Returns the draw command `PX <x> <y> <RRGGBBAA>\n` of the given pixel.
func encodePixel(p pixel) []byte {
	return appendPixel(make([]byte, 0, 24), p)
}

// Returns the query command `PX <x> <y>\n`, the server answers with the color at that position.
func encodePixelQuery(x, y int) []byte {
	dst := make([]byte, 0, 16)
	dst = append(dst, commandPixel...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(x), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(y), 10)
	return append(dst, '\n')
}

func encodeSizeQuery() []byte {
	return []byte(commandSize + "\n")
}

// Parses a non negative base 10 coordinate or size value.
func parseCoordinate(s string) (int, error) {
	v, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Parses a color of the form RRGGBB or RRGGBBAA. The short form implies an opaque color.
func parseColor(s string) (color, error) {
	if len(s) != 6 && len(s) != 8 {
		return color{}, fmt.Errorf("color %q has %v digits, want 6 or 8", s, len(s))
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return color{}, fmt.Errorf("color %q is not hexadecimal: %v", s, err)
	}

	c := color{R: raw[0], G: raw[1], B: raw[2], A: 255}
	if len(raw) == 4 {
		c.A = raw[3]
	}

	return c, nil
}

// Splits a protocol line into its tokens.
// Only trailing whitespace is tolerated, tokens are separated by exactly one space.
func splitRecord(line string) []string {
	return strings.Split(strings.TrimRight(line, " \t\r\n"), " ")
}

// Decodes a line of the form `PX <x> <y> <RRGGBB[AA]>`.
// Trailing whitespace and line endings are ignored, any other deviation results in an error wrapping errMalformedPixelRecord.
func decodePixel(line string) (pixel, error) {
	fields := splitRecord(line)
	if len(fields) != 4 || fields[0] != commandPixel {
		return pixel{}, fmt.Errorf("%w: %q has %v fields, want 4 starting with %v", errMalformedPixelRecord, line, len(fields), commandPixel)
	}

	x, err := parseCoordinate(fields[1])
	if err != nil {
		return pixel{}, fmt.Errorf("%w: invalid x coordinate in %q: %v", errMalformedPixelRecord, line, err)
	}
	y, err := parseCoordinate(fields[2])
	if err != nil {
		return pixel{}, fmt.Errorf("%w: invalid y coordinate in %q: %v", errMalformedPixelRecord, line, err)
	}
	c, err := parseColor(fields[3])
	if err != nil {
		return pixel{}, fmt.Errorf("%w: %v", errMalformedPixelRecord, err)
	}

	return pixel{X: x, Y: y, Color: c}, nil
}

// Decodes the answer `SIZE <width> <height>` of a size query.
func decodeSizeResponse(line string) (canvasSize, error) {
	fields := splitRecord(line)
	if len(fields) != 3 || fields[0] != commandSize {
		return canvasSize{}, fmt.Errorf("%w: %q has %v fields, want 3 starting with %v", errMalformedSizeResponse, line, len(fields), commandSize)
	}

	width, err := parseCoordinate(fields[1])
	if err != nil {
		return canvasSize{}, fmt.Errorf("%w: invalid width in %q: %v", errMalformedSizeResponse, line, err)
	}
	height, err := parseCoordinate(fields[2])
	if err != nil {
		return canvasSize{}, fmt.Errorf("%w: invalid height in %q: %v", errMalformedSizeResponse, line, err)
	}

	return canvasSize{width, height}, nil
}
