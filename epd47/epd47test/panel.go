// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/GermanBionicSystems/paper/ed047tc1"
	"github.com/GermanBionicSystems/paper/epd47"
)

// DefaultSaturation is the number of passes that move a pixel from mid
// gray to full black or white.
const DefaultSaturation = 8

// Panel emulates the electrophoretic medium behind the bus.
//
// Each pixel holds a signed level, positive towards black. A 0b01 drive
// symbol increments it, 0b10 decrements it, anything else holds. Levels
// saturate at ±Saturation. Drives only have an effect while powered.
//
// As on the hardware, WriteRow applies the row shifted out by the previous
// WriteRow of the frame, so a frame of height rows needs height+1 calls.
type Panel struct {
	Width, Height int
	// Saturation bounds the level of every pixel.
	Saturation int
	// Palette is used by Print. Defaults to ansi256.Default.
	Palette *ansi256.Palette

	level []int

	slots   [2][]byte
	cur     int
	pending []byte
	row     int

	initialized bool
	powered     bool
	inFrame     bool

	// Elapsed is the sum of the WriteRow delays.
	Elapsed time.Duration
}

// NewPanel returns an uninitialized, unpowered, mid gray panel.
func NewPanel(width, height int) *Panel {
	rowBytes := (width + 3) / 4
	return &Panel{
		Width:      width,
		Height:     height,
		Saturation: DefaultSaturation,
		level:      make([]int, width*height),
		slots:      [2][]byte{make([]byte, rowBytes), make([]byte, rowBytes)},
	}
}

func (p *Panel) String() string {
	return fmt.Sprintf("epd47test.Panel{%dx%d}", p.Width, p.Height)
}

// Init implements epd47.Lifecycle.
func (p *Panel) Init(lut epd47.LUTSize) error {
	if lut != epd47.LUT1K && lut != epd47.LUT64K {
		return fmt.Errorf("epd47test: unsupported lut %v", lut)
	}
	p.initialized = true
	return nil
}

// PowerOn implements epd47.Lifecycle.
func (p *Panel) PowerOn() error {
	if !p.initialized {
		return errors.New("epd47test: power on before init")
	}
	p.powered = true
	return nil
}

// PowerOff implements epd47.Lifecycle.
func (p *Panel) PowerOff() error {
	p.powered = false
	return nil
}

// Deinit implements epd47.Lifecycle.
func (p *Panel) Deinit() error {
	p.powered = false
	p.initialized = false
	return nil
}

// StartFrame implements epd47.Transport.
func (p *Panel) StartFrame() error {
	if !p.initialized {
		return errors.New("epd47test: frame before init")
	}
	if p.inFrame {
		return errors.New("epd47test: frame already started")
	}
	p.inFrame = true
	p.pending = nil
	p.row = 0
	return nil
}

// EndFrame implements epd47.Transport.
func (p *Panel) EndFrame() error {
	if !p.inFrame {
		return errors.New("epd47test: no frame started")
	}
	p.inFrame = false
	return nil
}

// SwitchBuffer implements epd47.Transport.
func (p *Panel) SwitchBuffer() {
	p.cur ^= 1
}

// CurrentBuffer implements epd47.Transport.
func (p *Panel) CurrentBuffer() []byte {
	return p.slots[p.cur]
}

// ReorderLineBuffer implements epd47.Transport.
func (p *Panel) ReorderLineBuffer(row []byte) {
	ed047tc1.Reorder(row)
}

// WriteRow implements epd47.Transport.
func (p *Panel) WriteRow(delay time.Duration) error {
	if !p.inFrame {
		return errors.New("epd47test: row outside of a frame")
	}
	if p.pending != nil && p.row < p.Height {
		p.drive(p.row, p.pending)
		p.row++
	}
	p.pending = append(p.pending[:0], p.slots[p.cur]...)
	p.cur ^= 1
	p.Elapsed += delay
	return nil
}

// drive applies one wire row to row y.
func (p *Panel) drive(y int, wire []byte) {
	if !p.powered {
		return
	}
	row := append([]byte(nil), wire...)
	ed047tc1.Reorder(row)
	for i := 0; i+1 < len(row); i += 2 {
		w := binary.LittleEndian.Uint16(row[i:])
		for bit := 0; bit < 8; bit++ {
			x := i/2*8 + bit
			if x >= p.Width {
				break
			}
			l := &p.level[y*p.Width+x]
			switch (w >> (2 * uint(bit))) & 0b11 {
			case 0b01:
				if *l < p.Saturation {
					*l++
				}
			case 0b10:
				if *l > -p.Saturation {
					*l--
				}
			}
		}
	}
}

// Level returns the level of pixel (x, y).
func (p *Panel) Level(x, y int) int {
	return p.level[y*p.Width+x]
}

// Image returns the panel content, 0 being fully black.
func (p *Panel) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for i, l := range p.level {
		img.Pix[i] = uint8(127 - l*127/p.Saturation)
	}
	return img
}

// Print writes the panel to w as ANSI colored blocks, one per scale*scale
// pixels.
func (p *Panel) Print(w io.Writer, scale int) error {
	if scale < 1 {
		scale = 1
	}
	pal := p.Palette
	if pal == nil {
		pal = ansi256.Default
	}
	img := p.Image()
	var buf bytes.Buffer
	for y := 0; y < p.Height; y += scale {
		for x := 0; x < p.Width; x += scale {
			sum, n := 0, 0
			for dy := 0; dy < scale && y+dy < p.Height; dy++ {
				for dx := 0; dx < scale && x+dx < p.Width; dx++ {
					sum += int(img.GrayAt(x+dx, y+dy).Y)
					n++
				}
			}
			g := uint8(sum / n)
			_, _ = io.WriteString(&buf, pal.Block(color.NRGBA{g, g, g, 255}))
		}
		_, _ = buf.WriteString("\033[0m\n")
	}
	_, err := buf.WriteTo(w)
	return err
}

// Show prints the panel to the console.
func (p *Panel) Show(scale int) error {
	return p.Print(colorable.NewColorableStdout(), scale)
}

var _ epd47.Bus = &Panel{}
