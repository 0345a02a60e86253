// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/GermanBionicSystems/paper/epd47"
	"github.com/GermanBionicSystems/paper/epd47/epd47test"
	"github.com/GermanBionicSystems/paper/preview"
)

// refresher redraws the panel. It is run once, then on every scheduled
// tick.
type refresher struct {
	mu  sync.Mutex
	dev *epd47.Dev

	// flash, when set, is applied before drawing.
	flash     *epd47.Color
	text      string
	imagePath string
	fontSize  float64
	inverse   bool
	// cycles of the negative pass; zero selects epd47.DefaultCycles.
	cycles int

	// panel and out are set when emulating.
	panel *epd47test.Panel
	out   io.Writer
	scale int
	// sink, when set, receives the emulated panel after every refresh.
	sink *preview.Sink
}

func (r *refresher) refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := time.Now()
	if err := r.dev.PowerOn(); err != nil {
		return err
	}
	err := r.draw()
	if err2 := r.dev.PowerOff(); err == nil {
		err = err2
	}
	if err != nil {
		return err
	}
	log.Printf("refresh: %s %+v", time.Since(start), r.dev.Stats())
	if r.panel == nil {
		return nil
	}
	if r.sink != nil {
		r.sink.Publish(r.panel.Image())
	}
	if r.out == nil {
		return nil
	}
	return r.panel.Print(r.out, r.scale)
}

func (r *refresher) draw() error {
	if r.flash != nil {
		if err := r.dev.Flash(*r.flash); err != nil {
			return err
		}
	}
	if r.text == "" && r.imagePath == "" {
		return nil
	}
	b := r.dev.Bounds()
	fb, err := compose(b.Dx(), b.Dy(), r.text, r.imagePath, r.fontSize)
	if err != nil {
		return err
	}
	if r.inverse {
		n := r.cycles
		if n == 0 {
			n = epd47.DefaultCycles
		}
		if err := r.dev.RenderCycles(fb, n, true); err != nil {
			return err
		}
	}
	return r.dev.Render(fb)
}
