// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nxp74hct4094 drives a 74HCT4094 8-stage shift-and-store register.
// Bits are shifted in over SPI (MOSI to D, SCLK to CP) and copied to the
// outputs on a strobe (STR) pulse, so the outputs never show the partially
// shifted value.
//
// Boards such as the LilyGo T5 4.7" use it to hold the panel power enables
// and the slow gate driver control lines.
//
// # Datasheet
//
// https://assets.nexperia.com/documents/data-sheet/74HC_HCT4094.pdf
package nxp74hct4094

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

const (
	devName = "74HCT4094"
	numPins = 8
)

var (
	ErrNotImplemented = errors.New("nxp74hct4094: not implemented")
)

// Dev represents a 74HCT4094 device.
type Dev struct {
	// Pins are the outputs QP0 to QP7. Pin n is bit n of the register; bit 7
	// is shifted first.
	Pins []gpio.PinOut

	mu     sync.Mutex
	conn   spi.Conn
	strobe gpio.PinOut
	value  uint16
}

// New returns a Dev shifting through conn and latching with strobe. conn
// must be configured for 8 bits per word, MSB first.
func New(conn spi.Conn, strobe gpio.PinOut) (*Dev, error) {
	if err := strobe.Out(gpio.Low); err != nil {
		return nil, err
	}
	// An out of range initial value forces the first write to happen, even
	// if it's 0.
	dev := &Dev{conn: conn, strobe: strobe, value: 1 << numPins, Pins: make([]gpio.PinOut, numPins)}
	for ix := 0; ix < numPins; ix++ {
		dev.Pins[ix] = &Pin{number: ix, name: fmt.Sprintf("%s_QP%d", devName, ix), dev: dev}
	}
	return dev, nil
}

// Write sets the outputs selected by mask to value.
func (dev *Dev) Write(value, mask byte) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.writeLocked(value, mask)
}

// Value returns the last value stored in the outputs.
func (dev *Dev) Value() byte {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return byte(dev.value)
}

func (dev *Dev) writeLocked(value, mask byte) error {
	if dev.conn == nil {
		return errors.New("nxp74hct4094: device halted")
	}
	newValue := uint16(byte(dev.value)&^mask | value&mask)
	if dev.value == newValue {
		return nil
	}
	if err := dev.conn.Tx([]byte{byte(newValue)}, nil); err != nil {
		return err
	}
	if err := dev.strobe.Out(gpio.High); err != nil {
		return err
	}
	if err := dev.strobe.Out(gpio.Low); err != nil {
		return err
	}
	dev.value = newValue
	return nil
}

// Halt detaches the device. The outputs keep their last value.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.conn = nil
	return nil
}

func (dev *Dev) String() string {
	return devName
}
