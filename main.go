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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	colorable "github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var log = logrus.New()

func setupLogging(v *viper.Viper) (io.Closer, error) {
	log.SetReportCaller(true)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:   term.IsTerminal(int(os.Stdout.Fd())),
		FullTimestamp: true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return fmt.Sprintf("%s()", f.Function), ""
		},
	})

	level, err := logrus.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	logFile := v.GetString("log.file")
	if logFile == "" {
		log.SetOutput(colorable.NewColorableStdout())
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("Can't open log file %v: %v", logFile, err)
	}
	log.SetOutput(io.MultiWriter(colorable.NewColorableStdout(), f))

	return f, nil
}

func main() {
	v, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Can't load configuration: %v", err)
	}

	logCloser, err := setupLogging(v)
	if err != nil {
		log.Fatalf("Can't set up logging: %v", err)
	}
	defer logCloser.Close()

	cfg, err := resolveDrawConfig(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats := newRunStats(cfg.Mode.getModeName(), cfg.Endpoint)
	log.Infof("Run %v started", stats.RunID)

	if addr := v.GetString("status-listen"); addr != "" {
		go func() {
			if err := serveStatus(ctx, addr, stats); err != nil {
				log.Errorf("Status server stopped: %v", err)
			}
		}()
	}

	if err := newDriver(cfg, stats).run(ctx); err != nil {
		log.Errorf("Run %v failed: %v", stats.RunID, err)
		logCloser.Close()
		os.Exit(1)
	}

	snapshot := stats.getSnapshot()
	log.Infof("Run %v finished after %v frames, %v pixels sent", snapshot.RunID, snapshot.Iteration, snapshot.PixelsSent)
}
