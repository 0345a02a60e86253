// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/GermanBionicSystems/paper/epd47"
)

// drivePanel drives rows through p the way the frame driver does.
func drivePanel(t *testing.T, p *Panel, rows ...[]byte) {
	if err := p.StartFrame(); err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		r := append([]byte(nil), row...)
		p.ReorderLineBuffer(r)
		p.SwitchBuffer()
		copy(p.CurrentBuffer(), r)
		p.SwitchBuffer()
		copy(p.CurrentBuffer(), r)
		if err := p.WriteRow(0); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.WriteRow(0); err != nil {
		t.Fatal(err)
	}
	if err := p.EndFrame(); err != nil {
		t.Fatal(err)
	}
}

func newPoweredPanel(t *testing.T, w, h int) *Panel {
	p := NewPanel(w, h)
	if err := p.Init(epd47.LUT1K); err != nil {
		t.Fatal(err)
	}
	if err := p.PowerOn(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPanelDrive(t *testing.T) {
	p := newPoweredPanel(t, 8, 2)
	// Pixel 0 black, pixel 7 white, the rest held.
	row := []byte{0x01, 0x80}
	for i := 0; i < 3; i++ {
		drivePanel(t, p, row, []byte{0, 0})
	}
	want := []int{3, 0, 0, 0, 0, 0, 0, -3}
	for x, w := range want {
		if l := p.Level(x, 0); l != w {
			t.Errorf("Level(%d, 0) = %d, want %d", x, l, w)
		}
		if l := p.Level(x, 1); l != 0 {
			t.Errorf("Level(%d, 1) = %d, want 0", x, l)
		}
	}
}

func TestPanelSaturation(t *testing.T) {
	p := newPoweredPanel(t, 8, 1)
	p.Saturation = 2
	for i := 0; i < 5; i++ {
		drivePanel(t, p, []byte{0x55, 0x55})
	}
	if l := p.Level(0, 0); l != 2 {
		t.Errorf("Level(0, 0) = %d, want 2", l)
	}
	if g := p.Image().GrayAt(0, 0).Y; g != 0 {
		t.Errorf("Image() = %d, want 0", g)
	}
}

func TestPanelErrors(t *testing.T) {
	p := NewPanel(8, 1)
	if err := p.PowerOn(); err == nil {
		t.Error("PowerOn() before Init() succeeded")
	}
	if err := p.StartFrame(); err == nil {
		t.Error("StartFrame() before Init() succeeded")
	}
	if err := p.Init(epd47.LUTSize(7)); err == nil {
		t.Error("Init() with an invalid lut succeeded")
	}
	if err := p.Init(epd47.LUT1K); err != nil {
		t.Fatal(err)
	}
	if err := p.WriteRow(0); err == nil {
		t.Error("WriteRow() outside of a frame succeeded")
	}
	if err := p.EndFrame(); err == nil {
		t.Error("EndFrame() without a frame succeeded")
	}
	if err := p.StartFrame(); err != nil {
		t.Fatal(err)
	}
	if err := p.StartFrame(); err == nil {
		t.Error("nested StartFrame() succeeded")
	}
}

func TestPanelPrint(t *testing.T) {
	p := newPoweredPanel(t, 8, 2)
	var buf bytes.Buffer
	if err := p.Print(&buf, 2); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("got %d lines, want 1", len(lines))
	}
	if !strings.HasSuffix(lines[0], "\033[0m") {
		t.Errorf("line not reset: %q", lines[0])
	}
}
