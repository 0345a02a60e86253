// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/GermanBionicSystems/paper/epd47"
)

// config is the content of the optional YAML file.
type config struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	RowDelay time.Duration `yaml:"row_delay"`
	Cycles   int           `yaml:"cycles"`
	// LUT is "1K" or "64K".
	LUT string `yaml:"lut"`

	// SPI is the port of the configuration register, as known by spireg.
	SPI string `yaml:"spi"`
	// Pins overrides the Raspberry Pi wiring when set.
	Pins pinConfig `yaml:"pins"`

	// FontSize is in points.
	FontSize float64 `yaml:"font_size"`
	// Schedule is a cron expression to refresh the panel periodically.
	Schedule string `yaml:"schedule"`
	// Listen is the HTTP address serving /metrics, and the live panel on /
	// when emulating.
	Listen string `yaml:"listen"`
}

// pinConfig names the GPIO lines as known by gpioreg.
type pinConfig struct {
	Data   []string `yaml:"data"`
	CKH    string   `yaml:"ckh"`
	STH    string   `yaml:"sth"`
	CKV    string   `yaml:"ckv"`
	Strobe string   `yaml:"strobe"`
}

func defaultConfig() *config {
	o := epd47.LilyGoT547
	return &config{
		Width:    o.Width,
		Height:   o.Height,
		RowDelay: o.RowDelay,
		Cycles:   o.Cycles,
		LUT:      o.LUT.String(),
		FontSize: 48,
	}
}

// loadConfig returns the defaults overridden by the file at path, if any.
func loadConfig(path string) (*config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// opts returns the panel options.
func (c *config) opts() (*epd47.Opts, error) {
	o := &epd47.Opts{Width: c.Width, Height: c.Height, RowDelay: c.RowDelay, Cycles: c.Cycles}
	if c.LUT != "" {
		if err := o.LUT.Set(c.LUT); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (p *pinConfig) empty() bool {
	return len(p.Data) == 0 && p.CKH == "" && p.STH == "" && p.CKV == "" && p.Strobe == ""
}

// wiring is the resolved pinConfig.
type wiring struct {
	data          [8]gpio.PinOut
	ckh, sth, ckv gpio.PinOut
	strobe        gpio.PinOut
}

func (p *pinConfig) resolve() (*wiring, error) {
	if len(p.Data) != 8 {
		return nil, fmt.Errorf("need 8 data pins, got %d", len(p.Data))
	}
	w := &wiring{}
	var errs []error
	byName := func(name string) gpio.PinOut {
		if name == "" {
			errs = append(errs, errors.New("missing pin name"))
			return nil
		}
		pin := gpioreg.ByName(name)
		if pin == nil {
			errs = append(errs, fmt.Errorf("unknown pin %q", name))
			return nil
		}
		return pin
	}
	for i, n := range p.Data {
		w.data[i] = byName(n)
	}
	w.ckh = byName(p.CKH)
	w.sth = byName(p.STH)
	w.ckv = byName(p.CKV)
	w.strobe = byName(p.Strobe)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return w, nil
}
