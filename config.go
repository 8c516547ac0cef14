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
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultEndpoint   = "pixelflut.uwu.industries:1234"
	defaultWipeColor  = "FFFFFFFF"
	defaultWidth      = 1280
	defaultHeight     = 720
	defaultConfigFile = "config.json"
	envPrefix         = "PXF"
)

var modeNames = []string{"wipe", "noise", "fill", "blend", "formula", "pattern", "slice", "capture", "replay", "image"}

// Flags and the config keys they are bound to. Keys with a dot are nested in the config file.
var flagKeys = map[string]string{
	"formula-r": "formula.r",
	"formula-g": "formula.g",
	"formula-b": "formula.b",
	"formula-a": "formula.a",
	"log-level": "log.level",
	"log-file":  "log.file",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("pxf", pflag.ContinueOnError)

	fs.String("config", "", "Config file (default ./"+defaultConfigFile+" if it exists)")
	fs.String("endpoint", defaultEndpoint, "Canvas server: host:port, tcp://host:port, ws://host/path or mdns://_service._tcp")
	fs.Int("width", defaultWidth, "Canvas width, if the size isn't queried")
	fs.Int("height", defaultHeight, "Canvas height, if the size isn't queried")
	fs.Bool("dynamic-size", false, "Get the canvas size from the server")
	fs.String("mode", "wipe", "Draw mode: "+strings.Join(modeNames, ", "))
	fs.String("color", defaultWipeColor, "Color of the wipe mode as RRGGBB or RRGGBBAA")

	fs.String("formula-r", "", "Red channel formula of the formula mode, variables: x, y, iteration")
	fs.String("formula-g", "", "Green channel formula of the formula mode")
	fs.String("formula-b", "", "Blue channel formula of the formula mode")
	fs.String("formula-a", "", "Alpha channel formula of the formula mode")

	fs.String("from", "", "Pixmap file drawn by the replay mode")
	fs.String("image", "", "Image file drawn by the image mode")
	fs.Int("image-x", 0, "Horizontal offset of the image")
	fs.Int("image-y", 0, "Vertical offset of the image")
	fs.Int("image-width", 0, "Scale the image to this width, 0 keeps the aspect ratio")
	fs.Int("image-height", 0, "Scale the image to this height, 0 keeps the aspect ratio")

	fs.Bool("reconnect-per-frame", false, "Open a new connection for every frame")
	fs.Int("writers", 1, "Concurrent writers per frame")
	fs.Int("chunk-bytes", defaultChunkBytes, "Maximum size of a single write")
	fs.Duration("dial-timeout", 10*time.Second, "Connect timeout, 0 disables it")
	fs.Duration("read-timeout", 10*time.Second, "Timeout of size and pixel queries, 0 disables it")
	fs.Int64("seed", 0, "Seed of the random colors, 0 uses the current time")

	fs.String("capture-dir", "captures", "Directory captures are stored in")
	fs.Bool("compress", false, "Compress captures with gzip")
	fs.Bool("capture-png", true, "Also store captures as PNG")

	fs.String("status-listen", "", "Address of the HTTP status server, empty disables it")
	fs.String("log-level", "info", "Log level: trace, debug, info, warning, error")
	fs.String("log-file", "", "Additionally write the log to this file")

	return fs
}

// Reads .env, the config file, PXF_* environment variables and the command line, in increasing priority.
func loadConfig(args []string) (*viper.Viper, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("Can't load .env file: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	configFile := v.GetString("config")
	if configFile == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configFile = filepath.Join(".", defaultConfigFile)
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Can't load config file %v: %v", configFile, err)
		}
	}

	return v, nil
}

// Builds the draw mode selected by the "mode" key, with the parameters it needs.
func resolveDrawMode(v *viper.Viper) (drawMode, error) {
	switch name := strings.ToLower(v.GetString("mode")); name {
	case "wipe":
		c, err := parseColor(v.GetString("color"))
		if err != nil {
			return nil, fmt.Errorf("Invalid wipe color: %v", err)
		}
		return modeWipe{Color: c}, nil
	case "noise":
		return modeNoise{}, nil
	case "fill":
		return modeFill{}, nil
	case "blend":
		return modeBlend{}, nil
	case "pattern":
		return modePatternPositional{}, nil
	case "formula":
		exprs := [4]string{v.GetString("formula.r"), v.GetString("formula.g"), v.GetString("formula.b"), v.GetString("formula.a")}
		for i, e := range exprs {
			if strings.TrimSpace(e) == "" {
				return nil, fmt.Errorf("Formula mode needs a %v channel formula", formulaChannelNames[i])
			}
		}
		f, err := newFormula(exprs[0], exprs[1], exprs[2], exprs[3])
		if err != nil {
			return nil, err
		}
		return modePatternFormula{Formula: f}, nil
	case "slice":
		return modeSlice{}, nil
	case "capture":
		return modeCapture{SavePNG: v.GetBool("capture-png")}, nil
	case "replay":
		source := v.GetString("from")
		if source == "" {
			return nil, fmt.Errorf("Replay mode needs a pixmap file")
		}
		return modeReplay{Source: source}, nil
	case "image":
		path := v.GetString("image")
		if path == "" {
			return nil, fmt.Errorf("Image mode needs an image file")
		}
		size := image.Point{v.GetInt("image-width"), v.GetInt("image-height")}
		if size.X < 0 || size.Y < 0 {
			return nil, fmt.Errorf("Invalid image size %v", size)
		}
		return modeImage{
			Path:   path,
			Offset: image.Point{v.GetInt("image-x"), v.GetInt("image-y")},
			Size:   size,
		}, nil
	default:
		return nil, fmt.Errorf("Unknown mode %q, valid modes are %v", name, strings.Join(modeNames, ", "))
	}
}

// Validates the configuration and resolves it into a drawConfig.
func resolveDrawConfig(v *viper.Viper) (drawConfig, error) {
	mode, err := resolveDrawMode(v)
	if err != nil {
		return drawConfig{}, err
	}

	cfg := drawConfig{
		Endpoint:          v.GetString("endpoint"),
		Size:              canvasSize{v.GetInt("width"), v.GetInt("height")},
		DynamicSize:       v.GetBool("dynamic-size"),
		Mode:              mode,
		ReconnectPerFrame: v.GetBool("reconnect-per-frame"),
		Writers:           v.GetInt("writers"),
		ChunkBytes:        v.GetInt("chunk-bytes"),
		DialTimeout:       v.GetDuration("dial-timeout"),
		ReadTimeout:       v.GetDuration("read-timeout"),
		Store: pixmapStore{
			Directory: v.GetString("capture-dir"),
			Compress:  v.GetBool("compress"),
		},
		Seed: v.GetInt64("seed"),
	}

	if _, _, err := parseEndpoint(cfg.Endpoint); err != nil {
		return drawConfig{}, err
	}
	if !cfg.DynamicSize && cfg.Size.isEmpty() {
		return drawConfig{}, fmt.Errorf("Invalid canvas size %v", cfg.Size)
	}
	if cfg.Writers < 1 {
		return drawConfig{}, fmt.Errorf("Invalid number of writers %v", cfg.Writers)
	}
	if cfg.ChunkBytes < 1 {
		return drawConfig{}, fmt.Errorf("Invalid chunk size %v", cfg.ChunkBytes)
	}

	return cfg, nil
}
