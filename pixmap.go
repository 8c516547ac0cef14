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
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreos/go-semver/semver"
	"github.com/google/uuid"
	gzip "github.com/klauspost/pgzip"
)

// Pixmap files contain one draw command per line.
// They start with a header line "# pixmap <version>", other lines starting with # are ignored.
// Files without header are accepted as version 1.0.0.
const (
	pixmapHeaderPrefix = "# pixmap "
	pixmapExtension    = ".txt"
	pixmapGzExtension  = ".gz"
)

var pixmapVersion = semver.New("1.0.0")

// Stores captured canvases and loads them for replay.
type pixmapStore struct {
	Directory string // Directory new captures are written to
	Compress  bool   // Compress new captures with gzip
}

// Writes the header and all pixels to w.
func writePixmap(w io.Writer, f frame) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%v%v\n", pixmapHeaderPrefix, pixmapVersion); err != nil {
		return err
	}

	buf := make([]byte, 0, 32)
	for _, p := range f {
		buf = appendPixel(buf[:0], p)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Reads all pixels from r. Gzip compressed data is detected and decompressed.
func readPixmap(r io.Reader) (frame, error) {
	br := bufio.NewReader(r)

	magic, _ := br.Peek(2)
	if bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		zipReader, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("Can't initialize gzip reader: %v", err)
		}
		defer zipReader.Close()
		br = bufio.NewReader(zipReader)
	}

	f := frame{}
	scanner := bufio.NewScanner(br)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, pixmapHeaderPrefix):
			if err := checkPixmapVersion(strings.TrimPrefix(line, pixmapHeaderPrefix)); err != nil {
				return nil, fmt.Errorf("Line %v: %w", lineNumber, err)
			}
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}

		p, err := decodePixel(line)
		if err != nil {
			return nil, fmt.Errorf("Line %v: %w", lineNumber, err)
		}
		f = append(f, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("Error while reading pixmap: %v", err)
	}

	return f, nil
}

func checkPixmapVersion(s string) error {
	version, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("Invalid pixmap version %q: %v", s, err)
	}
	if version.Major > pixmapVersion.Major {
		return fmt.Errorf("Pixmap version %v is newer than the supported version %v", version, pixmapVersion)
	}

	return nil
}

// Writes a captured canvas to a new file in the store's directory.
// The returned path can be used with load.
func (ps pixmapStore) save(name string, f frame) (string, error) {
	fileName := sanitizeName(name) + "-" + uuid.NewString() + pixmapExtension
	if ps.Compress {
		fileName += pixmapGzExtension
	}
	filePath := filepath.Join(ps.Directory, fileName)

	if err := os.MkdirAll(ps.Directory, 0777); err != nil {
		return "", fmt.Errorf("Can't create directory %v: %v", ps.Directory, err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("Can't create file %v: %v", filePath, err)
	}
	defer file.Close()

	if ps.Compress {
		zipWriter, err := gzip.NewWriterLevel(file, gzip.DefaultCompression)
		if err != nil {
			return "", fmt.Errorf("Can't initialize compression %v: %v", filePath, err)
		}
		zipWriter.Name = fileName
		zipWriter.Comment = "pixelflut canvas capture"

		err = writePixmap(zipWriter, f)
		if closeErr := zipWriter.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return "", fmt.Errorf("Can't write to file %v: %v", filePath, err)
		}
	} else if err := writePixmap(file, f); err != nil {
		return "", fmt.Errorf("Can't write to file %v: %v", filePath, err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("Can't write to file %v: %v", filePath, err)
	}

	return filePath, nil
}

// Reads the pixmap file at the given path.
func (ps pixmapStore) load(path string) (frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Can't open pixmap %v: %v", path, err)
	}
	defer file.Close()

	f, err := readPixmap(file)
	if err != nil {
		return nil, fmt.Errorf("Can't read pixmap %v: %w", path, err)
	}

	return f, nil
}

// Stores a PNG version of a captured canvas next to its pixmap file.
func (ps pixmapStore) savePNG(pixmapPath string, img image.Image) (string, error) {
	filePath := strings.TrimSuffix(strings.TrimSuffix(pixmapPath, pixmapGzExtension), pixmapExtension) + ".png"

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("Can't create file %v: %v", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("Can't encode image %v: %v", filePath, err)
	}

	return filePath, file.Close()
}
