// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47

import (
	"fmt"
	"time"
)

// Transport moves rows onto the panel.
//
// The staging area is double buffered: SwitchBuffer selects the other slot
// and CurrentBuffer exposes it. WriteRow latches the row shifted out by the
// previous call, drives it for delay and shifts out the current slot. The
// last row of a frame therefore needs one extra WriteRow.
type Transport interface {
	StartFrame() error
	EndFrame() error
	SwitchBuffer()
	// CurrentBuffer returns the selected slot, RowBytes long.
	CurrentBuffer() []byte
	WriteRow(delay time.Duration) error
	// ReorderLineBuffer converts a composed row to the wire order in
	// place.
	ReorderLineBuffer(row []byte)
}

// Lifecycle is the power sequencing of the panel.
type Lifecycle interface {
	Init(lut LUTSize) error
	PowerOn() error
	PowerOff() error
	Deinit() error
}

// Bus is the full collaborator a Dev needs.
type Bus interface {
	Transport
	Lifecycle
}

// errorHandler is a wrapper for error management.
type errorHandler struct {
	t   Transport
	err error
}

func (eh *errorHandler) fail(err error) {
	if eh.err == nil {
		eh.err = err
	}
}

func (eh *errorHandler) startFrame() {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.StartFrame()
}

func (eh *errorHandler) endFrame() {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.EndFrame()
}

// stage copies row into the next staging slot.
func (eh *errorHandler) stage(row []byte) {
	if eh.err != nil {
		return
	}
	eh.t.SwitchBuffer()
	buf := eh.t.CurrentBuffer()
	if len(buf) != len(row) {
		eh.err = fmt.Errorf("%w: staging buffer is %d bytes, row is %d", ErrBufferSize, len(buf), len(row))
		return
	}
	copy(buf, row)
}

func (eh *errorHandler) writeRow(delay time.Duration) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.WriteRow(delay)
}
