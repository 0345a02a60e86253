// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47

import (
	"errors"
	"fmt"
	"time"
)

// ErrFrameState is returned when frame operations are called out of order.
var ErrFrameState = errors.New("epd47: invalid frame state")

type frameState uint8

const (
	frameIdle frameState = iota
	frameOpen
	frameClosed
)

func (s frameState) String() string {
	switch s {
	case frameIdle:
		return "idle"
	case frameOpen:
		return "open"
	case frameClosed:
		return "closed"
	}
	return fmt.Sprintf("frameState(%d)", uint8(s))
}

// Stats counts the work done on the bus.
type Stats struct {
	// Frames is the number of completed frames.
	Frames uint64
	// Rows is the number of rows staged, not counting replicas.
	Rows uint64
	// RowClocks is the number of WriteRow calls, trailing rows included.
	RowClocks uint64
}

// frameDriver sequences one frame: StartFrame, height rows, one trailing
// clock, EndFrame.
type frameDriver struct {
	t      Transport
	comp   *compositor
	height int
	delay  time.Duration

	state    frameState
	rows     int
	trailing bool
	stats    Stats
}

func newFrameDriver(t Transport, opts *Opts) *frameDriver {
	return &frameDriver{
		t:      t,
		comp:   newCompositor(t, opts.RowBytes()),
		height: opts.Height,
		delay:  opts.RowDelay,
	}
}

func (f *frameDriver) startFrame(eh *errorHandler) {
	if eh.err != nil {
		return
	}
	if f.state == frameOpen {
		eh.fail(fmt.Errorf("%w: start in state %s", ErrFrameState, f.state))
		return
	}
	eh.startFrame()
	if eh.err == nil {
		f.state = frameOpen
		f.rows = 0
		f.trailing = false
	}
}

// emitRow stages row replicate times and clocks it out.
func (f *frameDriver) emitRow(eh *errorHandler, row []byte, replicate int) {
	if eh.err != nil {
		return
	}
	if f.state != frameOpen || f.rows >= f.height {
		eh.fail(fmt.Errorf("%w: row %d in state %s", ErrFrameState, f.rows, f.state))
		return
	}
	for i := 0; i < replicate; i++ {
		eh.stage(row)
	}
	eh.writeRow(f.delay)
	if eh.err == nil {
		f.rows++
		f.stats.Rows++
		f.stats.RowClocks++
	}
}

// trailingRow clocks out the last staged row.
func (f *frameDriver) trailingRow(eh *errorHandler) {
	if eh.err != nil {
		return
	}
	if f.state != frameOpen || f.rows != f.height || f.trailing {
		eh.fail(fmt.Errorf("%w: trailing row after %d rows", ErrFrameState, f.rows))
		return
	}
	eh.writeRow(f.delay)
	if eh.err == nil {
		f.trailing = true
		f.stats.RowClocks++
	}
}

func (f *frameDriver) endFrame(eh *errorHandler) {
	if eh.err != nil {
		return
	}
	if f.state != frameOpen || f.rows != f.height || !f.trailing {
		eh.fail(fmt.Errorf("%w: end after %d rows", ErrFrameState, f.rows))
		return
	}
	eh.endFrame()
	f.state = frameClosed
	if eh.err == nil {
		f.stats.Frames++
	}
}

// abort ends a frame left open by a failed row so the transport can start
// the next one. The first error is kept.
func (f *frameDriver) abort(eh *errorHandler) {
	if f.state == frameOpen && eh.err != nil {
		_ = f.t.EndFrame()
	}
}

// reset returns to idle. A failed frame is abandoned; the next
// StartFrame begins from scratch.
func (f *frameDriver) reset() {
	f.state = frameIdle
	f.rows = 0
	f.trailing = false
}

// driveFill drives every row of one frame towards c.
func (f *frameDriver) driveFill(c Color) error {
	eh := errorHandler{t: f.t}
	defer f.reset()

	row := f.comp.fillRow(c)

	f.startFrame(&eh)
	for y := 0; y < f.height && eh.err == nil; y++ {
		f.emitRow(&eh, row, 1)
	}
	f.trailingRow(&eh)
	f.endFrame(&eh)
	f.abort(&eh)

	return eh.err
}

// drivePixels drives one frame of fb. Rows are staged into both slots.
func (f *frameDriver) drivePixels(fb *Framebuffer, inverse bool) error {
	eh := errorHandler{t: f.t}
	defer f.reset()

	f.startFrame(&eh)
	for y := 0; y < f.height && eh.err == nil; y++ {
		f.emitRow(&eh, f.comp.pixelRow(fb.Row(y), inverse), 2)
	}
	f.trailingRow(&eh)
	f.endFrame(&eh)
	f.abort(&eh)

	return eh.err
}
