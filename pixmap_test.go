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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var testPixmapFrame = frame{
	{0, 0, color{0, 0, 0, 255}},
	{0, 1, color{0x1A, 0x2B, 0x3C, 0x4D}},
	{1279, 719, color{255, 255, 255, 0}},
}

func checkFrame(t *testing.T, got, want frame) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("Got %v pixels, want %v", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pixel %v is %v, want %v", i, got[i], want[i])
		}
	}
}

func Test_pixmapStore(t *testing.T) {
	for _, compress := range []bool{false, true} {
		store := pixmapStore{Directory: filepath.Join(t.TempDir(), "captures"), Compress: compress}

		path, err := store.save("some capture/../", testPixmapFrame)
		if err != nil {
			t.Fatalf("save() with compression %v failed: %v", compress, err)
		}
		if filepath.Dir(path) != store.Directory {
			t.Errorf("save() wrote %v outside of %v", path, store.Directory)
		}
		if compress != strings.HasSuffix(path, pixmapGzExtension) {
			t.Errorf("save() with compression %v wrote %v", compress, path)
		}

		f, err := store.load(path)
		if err != nil {
			t.Fatalf("load(%v) failed: %v", path, err)
		}
		checkFrame(t, f, testPixmapFrame)
	}
}

func Test_readPixmap_plain(t *testing.T) {
	// Without header, with comments and whitespace
	input := "# some comment\n\nPX 0 0 000000FF\r\n  PX 0 1 1A2B3C4D \nPX 1279 719 FFFFFF00"

	f, err := readPixmap(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readPixmap() failed: %v", err)
	}
	checkFrame(t, f, testPixmapFrame)
}

func Test_readPixmap_errors(t *testing.T) {
	if _, err := readPixmap(strings.NewReader("# pixmap 2.0.0\nPX 0 0 000000FF\n")); err == nil {
		t.Errorf("readPixmap() accepted a newer major version")
	}
	if _, err := readPixmap(strings.NewReader("# pixmap 1.3.0\nPX 0 0 000000FF\n")); err != nil {
		t.Errorf("readPixmap() rejected a newer minor version: %v", err)
	}
	if _, err := readPixmap(strings.NewReader("# pixmap one\n")); err == nil {
		t.Errorf("readPixmap() accepted an invalid version")
	}

	_, err := readPixmap(strings.NewReader("PX 0 0 000000FF\nPX 0 a 000000FF\n"))
	if !errors.Is(err, errMalformedPixelRecord) {
		t.Errorf("readPixmap() error = %v, want errMalformedPixelRecord", err)
	}
}

func Test_pixmapStore_savePNG(t *testing.T) {
	store := pixmapStore{Directory: t.TempDir()}
	path, err := store.save("capture", testPixmapFrame)
	if err != nil {
		t.Fatalf("save() failed: %v", err)
	}

	pngPath, err := store.savePNG(path, testImage(4, 4))
	if err != nil {
		t.Fatalf("savePNG() failed: %v", err)
	}
	if want := strings.TrimSuffix(path, pixmapExtension) + ".png"; pngPath != want {
		t.Errorf("savePNG() wrote %v, want %v", pngPath, want)
	}
	if _, err := os.Stat(pngPath); err != nil {
		t.Errorf("Can't find PNG file: %v", err)
	}

	img, err := loadImage(pngPath)
	if err != nil {
		t.Fatalf("loadImage(%v) failed: %v", pngPath, err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("Stored image has bounds %v", img.Bounds())
	}
}
