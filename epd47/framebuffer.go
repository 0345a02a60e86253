// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Framebuffer byte values.
const (
	bufferWhite byte = 0x00
	bufferBlack byte = 0xFF
)

var (
	// ErrOutOfRange is returned for coordinates outside the framebuffer.
	ErrOutOfRange = errors.New("epd47: coordinate out of range")
	// ErrBufferSize is returned when a framebuffer does not match the panel.
	ErrBufferSize = errors.New("epd47: framebuffer size mismatch")
)

// Framebuffer is a 1 bit per pixel image, row-major. Pixel (x, y) is bit
// (y*width+x)%8 of byte (y*width+x)/8, least significant bit first. A set
// bit is black.
//
// Framebuffer implements draw.Image with image1bit.BitModel, where
// image1bit.On is white as in the other periph e-paper drivers.
type Framebuffer struct {
	// Pix holds the pixels. Its length is always (width*height+7)/8.
	Pix []byte
	// Rect is always anchored at (0, 0).
	Rect image.Rectangle
}

// NewFramebuffer returns a white framebuffer of the given size.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Pix:  make([]byte, (width*height+7)/8),
		Rect: image.Rect(0, 0, width, height),
	}
}

// Clear makes every pixel white.
func (f *Framebuffer) Clear() {
	f.Fill(false)
}

// Fill sets every pixel to black or white.
func (f *Framebuffer) Fill(black bool) {
	v := bufferWhite
	if black {
		v = bufferBlack
	}
	for i := range f.Pix {
		f.Pix[i] = v
	}
}

// SetPixel sets pixel (x, y) to black or white.
func (f *Framebuffer) SetPixel(x, y int, black bool) error {
	if !(image.Point{x, y}).In(f.Rect) {
		return fmt.Errorf("%w: (%d, %d) not in %v", ErrOutOfRange, x, y, f.Rect)
	}
	f.setBit(x, y, black)
	return nil
}

// Pixel reports whether pixel (x, y) is black.
func (f *Framebuffer) Pixel(x, y int) (bool, error) {
	if !(image.Point{x, y}).In(f.Rect) {
		return false, fmt.Errorf("%w: (%d, %d) not in %v", ErrOutOfRange, x, y, f.Rect)
	}
	return f.bit(x, y), nil
}

// Row returns the bytes of row y. Only valid when the width is a multiple
// of 8.
func (f *Framebuffer) Row(y int) []byte {
	stride := f.Rect.Dx() / 8
	return f.Pix[y*stride : (y+1)*stride]
}

func (f *Framebuffer) setBit(x, y int, black bool) {
	index := y*f.Rect.Dx() + x
	mask := byte(1) << uint(index%8)
	if black {
		f.Pix[index/8] |= mask
	} else {
		f.Pix[index/8] &^= mask
	}
}

func (f *Framebuffer) bit(x, y int) bool {
	index := y*f.Rect.Dx() + x
	return f.Pix[index/8]&(1<<uint(index%8)) != 0
}

// ColorModel implements image.Image.
func (f *Framebuffer) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (f *Framebuffer) Bounds() image.Rectangle {
	return f.Rect
}

// At implements image.Image.
func (f *Framebuffer) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// BitAt is the optimized version of At. Out of range pixels read as
// image1bit.Off.
func (f *Framebuffer) BitAt(x, y int) image1bit.Bit {
	if !(image.Point{x, y}).In(f.Rect) {
		return image1bit.Off
	}
	return image1bit.Bit(!f.bit(x, y))
}

// Set implements draw.Image.
func (f *Framebuffer) Set(x, y int, c color.Color) {
	f.SetBit(x, y, image1bit.BitModel.Convert(c).(image1bit.Bit))
}

// SetBit is the optimized version of Set. Out of range pixels are ignored
// as image.Image implementations do.
func (f *Framebuffer) SetBit(x, y int, b image1bit.Bit) {
	if !(image.Point{x, y}).In(f.Rect) {
		return
	}
	f.setBit(x, y, !bool(b))
}

var _ draw.Image = &Framebuffer{}
