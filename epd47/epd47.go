// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Dev is a handle to the panel.
//
// Dev is not safe for concurrent use. Every call blocks for roughly
// cycles*(height+1)*RowDelay plus the bus overhead.
type Dev struct {
	bus    Bus
	opts   Opts
	frame  *frameDriver
	buffer *Framebuffer
}

// New returns a Dev driving the panel through bus.
func New(bus Bus, opts *Opts) (*Dev, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Dev{
		bus:    bus,
		opts:   o,
		frame:  newFrameDriver(bus, &o),
		buffer: NewFramebuffer(o.Width, o.Height),
	}, nil
}

// Init prepares the bus. It must be called once before PowerOn.
func (d *Dev) Init() error {
	return d.bus.Init(d.opts.LUT)
}

// PowerOn enables the panel supply rails.
func (d *Dev) PowerOn() error {
	return d.bus.PowerOn()
}

// PowerOff disables the panel supply rails. The image stays visible.
func (d *Dev) PowerOff() error {
	return d.bus.PowerOff()
}

// Deinit releases the bus.
func (d *Dev) Deinit() error {
	return d.bus.Deinit()
}

// Flash drives the whole panel to c with the configured number of cycles.
func (d *Dev) Flash(c Color) error {
	return d.FlashCycles(c, d.opts.Cycles)
}

// FlashCycles drives the whole panel to c, repeating the frame cycles
// times.
func (d *Dev) FlashCycles(c Color, cycles int) error {
	if cycles < 0 {
		return fmt.Errorf("epd47: invalid cycle count %d", cycles)
	}
	for i := 0; i < cycles; i++ {
		if err := d.frame.driveFill(c); err != nil {
			return fmt.Errorf("epd47: flash cycle %d: %w", i, err)
		}
	}
	return nil
}

// Render draws fb with the configured number of cycles.
func (d *Dev) Render(fb *Framebuffer) error {
	return d.RenderCycles(fb, d.opts.Cycles, false)
}

// RenderCycles draws fb, repeating the same frame cycles times. With
// inverse set black and white are swapped, which is useful to flash the
// negative of an image before drawing it.
func (d *Dev) RenderCycles(fb *Framebuffer, cycles int, inverse bool) error {
	if cycles < 0 {
		return fmt.Errorf("epd47: invalid cycle count %d", cycles)
	}
	if fb == nil {
		return fmt.Errorf("%w: nil framebuffer", ErrBufferSize)
	}
	if len(fb.Pix) != d.opts.BufferSize() || fb.Rect != d.Bounds() {
		return fmt.Errorf("%w: got %d bytes for %v, want %d bytes for %v", ErrBufferSize, len(fb.Pix), fb.Rect, d.opts.BufferSize(), d.Bounds())
	}
	for i := 0; i < cycles; i++ {
		if err := d.frame.drivePixels(fb, inverse); err != nil {
			return fmt.Errorf("epd47: render cycle %d: %w", i, err)
		}
	}
	return nil
}

// Clear whitens the panel and the internal framebuffer.
func (d *Dev) Clear() error {
	d.buffer.Clear()
	return d.Flash(White)
}

// Buffer returns the framebuffer used by Draw.
func (d *Dev) Buffer() *Framebuffer {
	return d.buffer
}

// Stats returns counters of the frames driven so far.
func (d *Dev) Stats() Stats {
	return d.frame.stats
}

// ColorModel returns a 1Bit color model.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the bounds for the configured display.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// Draw copies src into the internal framebuffer and renders it. The whole
// panel is refreshed regardless of dstRect.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Src.Draw(d.buffer, dstRect, src, srcPts)
	return d.Render(d.buffer)
}

// Halt powers the panel off.
func (d *Dev) Halt() error {
	return d.PowerOff()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd47.Dev{%v, Width: %d, Height: %d}", d.bus, d.opts.Width, d.opts.Height)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
