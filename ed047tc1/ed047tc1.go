// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed047tc1

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"

	"github.com/GermanBionicSystems/paper/epd47"
	"github.com/GermanBionicSystems/paper/nxp74hct4094"
)

// Settle times of the supply rails and the gate driver start sequence.
const (
	railDelay     = 100 * time.Microsecond
	negRailDelay  = 500 * time.Microsecond
	posRailOff    = 10 * time.Microsecond
	stvSetup      = time.Microsecond
	ckvShort      = time.Microsecond
	ckvStart      = 10 * time.Microsecond
	ckvRowRelease = 5 * time.Microsecond
)

// Config holds the slow control lines. On the LilyGo board they are the
// outputs of a 74HCT4094, see ConfigRegister.
type Config struct {
	LatchEnable    gpio.PinOut
	PowerDisable   gpio.PinOut
	PosPowerEnable gpio.PinOut
	NegPowerEnable gpio.PinOut
	STV            gpio.PinOut
	ScanDirection  gpio.PinOut
	Mode           gpio.PinOut
	OutputEnable   gpio.PinOut
}

// ConfigRegister maps the LilyGo assignment of the 74HCT4094 outputs.
func ConfigRegister(r *nxp74hct4094.Dev) Config {
	return Config{
		LatchEnable:    r.Pins[0],
		PowerDisable:   r.Pins[1],
		PosPowerEnable: r.Pins[2],
		NegPowerEnable: r.Pins[3],
		STV:            r.Pins[4],
		ScanDirection:  r.Pins[5],
		Mode:           r.Pins[6],
		OutputEnable:   r.Pins[7],
	}
}

func (c *Config) pins() []gpio.PinOut {
	return []gpio.PinOut{c.LatchEnable, c.PowerDisable, c.PosPowerEnable, c.NegPowerEnable, c.STV, c.ScanDirection, c.Mode, c.OutputEnable}
}

// Opts describes the wiring.
type Opts struct {
	// Data are the bus lines D0 to D7.
	Data [8]gpio.PinOut
	// CKH clocks the source driver, STH starts a row.
	CKH, STH gpio.PinOut
	// CKV clocks the gate driver.
	CKV gpio.PinOut

	Config Config

	// RowBytes is the row size at 2 bits per pixel. It must be a multiple
	// of 4.
	RowBytes int
}

// Dev is a handle to the panel drivers.
type Dev struct {
	data     [8]gpio.PinOut
	ckh, sth gpio.PinOut
	ckv      gpio.PinOut
	cfg      Config

	slots [2][]byte
	cur   int

	initialized bool
	powered     bool

	sleep func(time.Duration)
}

// New returns a Dev using the given pins.
func New(opts *Opts) (*Dev, error) {
	if opts.RowBytes <= 0 || opts.RowBytes%4 != 0 {
		return nil, fmt.Errorf("ed047tc1: row size %d is not a positive multiple of 4", opts.RowBytes)
	}
	pins := append([]gpio.PinOut{opts.CKH, opts.STH, opts.CKV}, opts.Data[:]...)
	for _, p := range append(pins, opts.Config.pins()...) {
		if p == nil {
			return nil, errors.New("ed047tc1: all pins must be set")
		}
	}
	return &Dev{
		data:  opts.Data,
		ckh:   opts.CKH,
		sth:   opts.STH,
		ckv:   opts.CKV,
		cfg:   opts.Config,
		slots: [2][]byte{make([]byte, opts.RowBytes), make([]byte, opts.RowBytes)},
		sleep: time.Sleep,
	}, nil
}

// NewRaspberryPi returns a Dev wired to the Raspberry Pi header: data on
// P1_29, P1_31, P1_33, P1_35, P1_37, P1_36, P1_38, P1_40, CKH on P1_11,
// STH on P1_13, CKV on P1_15, and the configuration register on the SPI
// port p with its strobe on P1_16.
func NewRaspberryPi(p spi.Port, opts *epd47.Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	reg, err := nxp74hct4094.New(c, rpi.P1_16)
	if err != nil {
		return nil, err
	}
	return New(&Opts{
		Data:     [8]gpio.PinOut{rpi.P1_29, rpi.P1_31, rpi.P1_33, rpi.P1_35, rpi.P1_37, rpi.P1_36, rpi.P1_38, rpi.P1_40},
		CKH:      rpi.P1_11,
		STH:      rpi.P1_13,
		CKV:      rpi.P1_15,
		Config:   ConfigRegister(reg),
		RowBytes: opts.RowBytes(),
	})
}

// Init puts every line in its idle state with the supplies disabled.
func (d *Dev) Init(lut epd47.LUTSize) error {
	if lut != epd47.LUT1K && lut != epd47.LUT64K {
		return fmt.Errorf("ed047tc1: unsupported lut %v", lut)
	}
	eh := errorHandler{d: d}
	for _, p := range d.data {
		eh.out(p, gpio.Low)
	}
	eh.out(d.ckh, gpio.Low)
	eh.out(d.sth, gpio.High)
	eh.out(d.ckv, gpio.Low)
	for _, p := range d.cfg.pins() {
		eh.out(p, gpio.Low)
	}
	eh.out(d.cfg.PowerDisable, gpio.High)
	if eh.err == nil {
		d.initialized = true
	}
	return eh.err
}

// PowerOn enables the negative then the positive rail.
func (d *Dev) PowerOn() error {
	if !d.initialized {
		return errors.New("ed047tc1: power on before init")
	}
	eh := errorHandler{d: d}
	eh.out(d.cfg.ScanDirection, gpio.High)
	eh.out(d.cfg.PowerDisable, gpio.Low)
	eh.sleep(railDelay)
	eh.out(d.cfg.NegPowerEnable, gpio.High)
	eh.sleep(negRailDelay)
	eh.out(d.cfg.PosPowerEnable, gpio.High)
	eh.sleep(railDelay)
	eh.out(d.cfg.STV, gpio.High)
	eh.out(d.sth, gpio.High)
	if eh.err == nil {
		d.powered = true
	}
	return eh.err
}

// PowerOff disables the rails in reverse order.
func (d *Dev) PowerOff() error {
	eh := errorHandler{d: d}
	eh.out(d.cfg.PosPowerEnable, gpio.Low)
	eh.sleep(posRailOff)
	eh.out(d.cfg.NegPowerEnable, gpio.Low)
	eh.sleep(railDelay)
	eh.out(d.cfg.PowerDisable, gpio.High)
	eh.out(d.cfg.STV, gpio.Low)
	if eh.err == nil {
		d.powered = false
	}
	return eh.err
}

// Deinit powers off and releases the data lines.
func (d *Dev) Deinit() error {
	if d.powered {
		if err := d.PowerOff(); err != nil {
			return err
		}
	}
	eh := errorHandler{d: d}
	for _, p := range d.data {
		eh.out(p, gpio.Low)
	}
	if eh.err == nil {
		d.initialized = false
	}
	return eh.err
}

// StartFrame resets the gate driver to the first row and enables the
// outputs.
func (d *Dev) StartFrame() error {
	if !d.initialized {
		return errors.New("ed047tc1: frame before init")
	}
	eh := errorHandler{d: d}
	eh.out(d.cfg.Mode, gpio.High)
	eh.pulseCKV(ckvShort, ckvShort)
	eh.out(d.cfg.STV, gpio.Low)
	eh.sleep(stvSetup)
	eh.pulseCKV(ckvStart, ckvStart)
	eh.out(d.cfg.STV, gpio.High)
	eh.pulseCKV(0, ckvStart)
	for i := 0; i < 3; i++ {
		eh.pulseCKV(ckvShort, ckvShort)
	}
	eh.out(d.cfg.OutputEnable, gpio.High)
	return eh.err
}

// EndFrame disables the outputs and flushes the gate driver.
func (d *Dev) EndFrame() error {
	eh := errorHandler{d: d}
	eh.out(d.cfg.OutputEnable, gpio.Low)
	eh.out(d.cfg.Mode, gpio.Low)
	for i := 0; i < 5; i++ {
		eh.pulseCKV(ckvShort, ckvShort)
	}
	return eh.err
}

// SwitchBuffer implements epd47.Transport.
func (d *Dev) SwitchBuffer() {
	d.cur ^= 1
}

// CurrentBuffer implements epd47.Transport.
func (d *Dev) CurrentBuffer() []byte {
	return d.slots[d.cur]
}

// WriteRow latches the previously shifted row, drives it for delay, then
// shifts out the current slot and switches slots.
func (d *Dev) WriteRow(delay time.Duration) error {
	eh := errorHandler{d: d}
	eh.latch()
	eh.pulseCKV(delay, ckvRowRelease)
	eh.shiftRow(d.slots[d.cur])
	if eh.err == nil {
		d.cur ^= 1
	}
	return eh.err
}

// ReorderLineBuffer implements epd47.Transport.
func (d *Dev) ReorderLineBuffer(row []byte) {
	Reorder(row)
}

// Halt powers the panel off.
func (d *Dev) Halt() error {
	return d.PowerOff()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("ed047tc1.Dev{CKH: %s, CKV: %s, RowBytes: %d}", d.ckh, d.ckv, len(d.slots[0]))
}

var _ epd47.Bus = &Dev{}
