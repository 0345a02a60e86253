// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed047tc1

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) out(p gpio.PinOut, l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = p.Out(l)
}

func (eh *errorHandler) sleep(t time.Duration) {
	if eh.err != nil || t <= 0 {
		return
	}
	eh.d.sleep(t)
}

// pulseCKV raises CKV for high and lowers it for low.
func (eh *errorHandler) pulseCKV(high, low time.Duration) {
	eh.out(eh.d.ckv, gpio.High)
	eh.sleep(high)
	eh.out(eh.d.ckv, gpio.Low)
	eh.sleep(low)
}

// latch transfers the shifted row to the source driver outputs.
func (eh *errorHandler) latch() {
	eh.out(eh.d.cfg.LatchEnable, gpio.High)
	eh.out(eh.d.cfg.LatchEnable, gpio.Low)
}

// shiftRow puts row on the data bus, one byte per CKH clock. Bit n of
// each byte goes to data line n.
func (eh *errorHandler) shiftRow(row []byte) {
	eh.out(eh.d.sth, gpio.Low)
	for _, b := range row {
		for bit, p := range eh.d.data {
			eh.out(p, b&(1<<uint(bit)) != 0)
		}
		eh.out(eh.d.ckh, gpio.High)
		eh.out(eh.d.ckh, gpio.Low)
	}
	eh.out(eh.d.sth, gpio.High)
}
