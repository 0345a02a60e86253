// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47

import (
	"errors"
	"fmt"
	"time"
)

// Default timing of the LilyGo firmware.
const (
	// DefaultRowDelay is how long the gate driver holds each row. The
	// firmware passes 120 in tenths of a microsecond.
	DefaultRowDelay = 12 * time.Microsecond
	// DefaultCycles is the number of passes per Flash or Render.
	DefaultCycles = 16
)

// LUTSize selects the size of the lookup memory the bus reserves at Init.
type LUTSize int

// Supported LUTSize.
const (
	LUT1K LUTSize = iota + 1
	LUT64K
)

func (l LUTSize) String() string {
	switch l {
	case LUT1K:
		return "1K"
	case LUT64K:
		return "64K"
	default:
		return fmt.Sprintf("LUTSize(%d)", int(l))
	}
}

// Set sets the LUTSize to a value represented by the string s. Set implements the flag.Value interface.
func (l *LUTSize) Set(s string) error {
	switch s {
	case "1K", "1k":
		*l = LUT1K
	case "64K", "64k":
		*l = LUT64K
	default:
		return fmt.Errorf("unknown lut %q: expected 1K or 64K", s)
	}
	return nil
}

// Color is the uniform state used by Flash.
type Color bool

// Valid Color.
const (
	White Color = false
	Black Color = true
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Set sets the Color to a value represented by the string s. Set implements the flag.Value interface.
func (c *Color) Set(s string) error {
	switch s {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q: expected either white or black", s)
	}
	return nil
}

// Opts defines the panel geometry and waveform timing.
type Opts struct {
	// Width and Height in pixels. Width must be a multiple of 8.
	Width  int
	Height int

	// RowDelay is passed to Transport.WriteRow for every row. Zero selects
	// DefaultRowDelay.
	RowDelay time.Duration
	// Cycles is the pass count used by Flash, Render and Clear. Zero
	// selects DefaultCycles.
	Cycles int

	// LUT is handed to Lifecycle.Init.
	LUT LUTSize
}

// LilyGoT547 contains the configuration of the LilyGo T5 4.7" board.
var LilyGoT547 = Opts{
	Width:    960,
	Height:   540,
	RowDelay: DefaultRowDelay,
	Cycles:   DefaultCycles,
	LUT:      LUT1K,
}

// RowBytes returns the size of one row at 2 bits per pixel.
func (o *Opts) RowBytes() int {
	return (o.Width + 3) / 4
}

// BufferSize returns the size of a 1 bit per pixel framebuffer.
func (o *Opts) BufferSize() int {
	return (o.Width*o.Height + 7) / 8
}

// withDefaults returns a validated copy of o with zero fields filled in.
func (o *Opts) withDefaults() (Opts, error) {
	r := *o
	if r.Width <= 0 || r.Height <= 0 {
		return r, fmt.Errorf("epd47: invalid size %dx%d", r.Width, r.Height)
	}
	if r.Width%8 != 0 {
		return r, fmt.Errorf("epd47: width %d is not a multiple of 8", r.Width)
	}
	if r.RowDelay == 0 {
		r.RowDelay = DefaultRowDelay
	}
	if r.RowDelay < 0 {
		return r, errors.New("epd47: negative row delay")
	}
	if r.Cycles == 0 {
		r.Cycles = DefaultCycles
	}
	if r.Cycles < 0 {
		return r, fmt.Errorf("epd47: invalid cycle count %d", r.Cycles)
	}
	if r.LUT == 0 {
		r.LUT = LUT1K
	}
	return r, nil
}
