// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd47test is meant to be used to test drivers over a fake panel
// bus.
package epd47test

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/paper/ed047tc1"
	"github.com/GermanBionicSystems/paper/epd47"
)

// Kind identifies a recorded bus call.
type Kind int

// Recorded calls.
const (
	Init Kind = iota
	PowerOn
	PowerOff
	Deinit
	StartFrame
	EndFrame
	SwitchBuffer
	Reorder
	WriteRow
)

var kindNames = [...]string{"Init", "PowerOn", "PowerOff", "Deinit", "StartFrame", "EndFrame", "SwitchBuffer", "Reorder", "WriteRow"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Op is one recorded call.
type Op struct {
	Kind Kind
	// Data is the row after reordering for Reorder, and the content of the
	// slot being shifted out for WriteRow.
	Data []byte
	// Delay is the WriteRow argument.
	Delay time.Duration
	// LUT is the Init argument.
	LUT epd47.LUTSize
}

// Record implements epd47.Bus and records every call.
type Record struct {
	sync.Mutex

	// Ops is the list of recorded calls.
	Ops []Op
	// Fail, when set, is consulted before each call that can fail. A
	// non-nil result is returned and the call is still recorded.
	Fail func(op Op) error
	// KeepData records row content. Without it Data is nil, which keeps
	// long recordings small.
	KeepData bool

	slots [2][]byte
	cur   int
}

// NewRecord returns a Record staging rows of rowBytes bytes.
func NewRecord(rowBytes int) *Record {
	return &Record{
		KeepData: true,
		slots:    [2][]byte{make([]byte, rowBytes), make([]byte, rowBytes)},
	}
}

func (r *Record) String() string {
	return "epd47test.Record"
}

// Count returns how many calls of kind k were recorded.
func (r *Record) Count(k Kind) int {
	r.Lock()
	defer r.Unlock()
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Reset drops the recorded calls.
func (r *Record) Reset() {
	r.Lock()
	defer r.Unlock()
	r.Ops = nil
}

func (r *Record) record(op Op) error {
	r.Lock()
	defer r.Unlock()
	r.Ops = append(r.Ops, op)
	if r.Fail != nil {
		return r.Fail(op)
	}
	return nil
}

func (r *Record) data(b []byte) []byte {
	if !r.KeepData {
		return nil
	}
	return append([]byte(nil), b...)
}

// Init implements epd47.Lifecycle.
func (r *Record) Init(lut epd47.LUTSize) error {
	return r.record(Op{Kind: Init, LUT: lut})
}

// PowerOn implements epd47.Lifecycle.
func (r *Record) PowerOn() error {
	return r.record(Op{Kind: PowerOn})
}

// PowerOff implements epd47.Lifecycle.
func (r *Record) PowerOff() error {
	return r.record(Op{Kind: PowerOff})
}

// Deinit implements epd47.Lifecycle.
func (r *Record) Deinit() error {
	return r.record(Op{Kind: Deinit})
}

// StartFrame implements epd47.Transport.
func (r *Record) StartFrame() error {
	return r.record(Op{Kind: StartFrame})
}

// EndFrame implements epd47.Transport.
func (r *Record) EndFrame() error {
	return r.record(Op{Kind: EndFrame})
}

// SwitchBuffer implements epd47.Transport.
func (r *Record) SwitchBuffer() {
	r.cur ^= 1
	_ = r.record(Op{Kind: SwitchBuffer})
}

// CurrentBuffer implements epd47.Transport.
func (r *Record) CurrentBuffer() []byte {
	return r.slots[r.cur]
}

// WriteRow implements epd47.Transport. The current slot is recorded and
// the slots are switched, as the hardware does once a row is shifted out.
func (r *Record) WriteRow(delay time.Duration) error {
	err := r.record(Op{Kind: WriteRow, Data: r.data(r.slots[r.cur]), Delay: delay})
	r.cur ^= 1
	return err
}

// ReorderLineBuffer implements epd47.Transport with the ED047TC1 bus
// order.
func (r *Record) ReorderLineBuffer(row []byte) {
	ed047tc1.Reorder(row)
	_ = r.record(Op{Kind: Reorder, Data: r.data(row)})
}

var _ epd47.Bus = &Record{}
