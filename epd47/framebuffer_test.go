// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47

import (
	"errors"
	"image"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func allPixels(t *testing.T, fb *Framebuffer, black bool) {
	t.Helper()
	for y := 0; y < fb.Rect.Dy(); y++ {
		for x := 0; x < fb.Rect.Dx(); x++ {
			got, err := fb.Pixel(x, y)
			if err != nil {
				t.Fatal(err)
			}
			if got != black {
				t.Fatalf("Pixel(%d, %d) = %v, want %v", x, y, got, black)
			}
		}
	}
}

func TestNewFramebuffer(t *testing.T) {
	for _, tc := range []struct {
		w, h    int
		wantLen int
	}{
		{0, 0, 0},
		{8, 1, 1},
		{16, 3, 6},
		{10, 3, 4},
		{960, 540, 64800},
	} {
		fb := NewFramebuffer(tc.w, tc.h)
		if len(fb.Pix) != tc.wantLen {
			t.Errorf("NewFramebuffer(%d, %d) has %d bytes, want %d", tc.w, tc.h, len(fb.Pix), tc.wantLen)
		}
		if diff := cmp.Diff(fb.Bounds(), image.Rect(0, 0, tc.w, tc.h)); diff != "" {
			t.Errorf("Bounds() difference (-got +want):\n%s", diff)
		}
	}
}

func TestClearFill(t *testing.T) {
	fb := NewFramebuffer(24, 5)

	fb.Fill(true)
	allPixels(t, fb, true)
	for i, b := range fb.Pix {
		if b != 0xff {
			t.Fatalf("Pix[%d] = %#x after Fill(true)", i, b)
		}
	}

	fb.Fill(false)
	allPixels(t, fb, false)

	fb.Fill(true)
	fb.Clear()
	allPixels(t, fb, false)
	for i, b := range fb.Pix {
		if b != 0 {
			t.Fatalf("Pix[%d] = %#x after Clear()", i, b)
		}
	}
}

func TestSetPixel(t *testing.T) {
	fb := NewFramebuffer(16, 4)
	for i := range fb.Pix {
		fb.Pix[i] = byte(0x5a + i*7)
	}
	orig := append([]byte(nil), fb.Pix...)

	for _, pt := range []image.Point{{0, 0}, {7, 0}, {8, 0}, {15, 3}, {3, 2}} {
		before, _ := fb.Pixel(pt.X, pt.Y)
		if err := fb.SetPixel(pt.X, pt.Y, true); err != nil {
			t.Fatal(err)
		}
		if got, _ := fb.Pixel(pt.X, pt.Y); !got {
			t.Errorf("Pixel(%v) = false after SetPixel(true)", pt)
		}
		if err := fb.SetPixel(pt.X, pt.Y, false); err != nil {
			t.Fatal(err)
		}
		if got, _ := fb.Pixel(pt.X, pt.Y); got {
			t.Errorf("Pixel(%v) = true after SetPixel(false)", pt)
		}
		if err := fb.SetPixel(pt.X, pt.Y, before); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff(fb.Pix, orig); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}
}

func TestSetPixelAddressing(t *testing.T) {
	fb := NewFramebuffer(16, 2)
	if err := fb.SetPixel(0, 0, true); err != nil {
		t.Fatal(err)
	}
	if err := fb.SetPixel(9, 1, true); err != nil {
		t.Fatal(err)
	}
	// (9, 1) is index 25: byte 3, bit 1.
	want := []byte{0x01, 0, 0, 0x02}
	if diff := cmp.Diff(fb.Pix, want); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(fb.Row(1), []byte{0, 0x02}); diff != "" {
		t.Errorf("Row(1) difference (-got +want):\n%s", diff)
	}
}

func TestOutOfRange(t *testing.T) {
	fb := NewFramebuffer(16, 2)
	for _, pt := range []image.Point{{-1, 0}, {0, -1}, {16, 0}, {0, 2}, {100, 100}} {
		if err := fb.SetPixel(pt.X, pt.Y, true); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetPixel(%v) = %v, want %v", pt, err, ErrOutOfRange)
		}
		if _, err := fb.Pixel(pt.X, pt.Y); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Pixel(%v) = %v, want %v", pt, err, ErrOutOfRange)
		}
		fb.SetBit(pt.X, pt.Y, image1bit.Off)
		if got := fb.BitAt(pt.X, pt.Y); got != image1bit.Off {
			t.Errorf("BitAt(%v) = %v", pt, got)
		}
	}
	if diff := cmp.Diff(fb.Pix, make([]byte, 4)); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}
}

func TestDrawImage(t *testing.T) {
	fb := NewFramebuffer(16, 4)
	if got := fb.BitAt(0, 0); got != image1bit.On {
		t.Errorf("BitAt() = %v on a white buffer, want On", got)
	}

	draw.Src.Draw(fb, image.Rect(4, 1, 12, 3), &image.Uniform{image1bit.Off}, image.Point{})

	for y := 0; y < 4; y++ {
		for x := 0; x < 16; x++ {
			want := (image.Point{x, y}).In(image.Rect(4, 1, 12, 3))
			if got, _ := fb.Pixel(x, y); got != want {
				t.Errorf("Pixel(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}

	draw.Draw(fb, fb.Bounds(), image.White, image.Point{}, draw.Src)
	allPixels(t, fb, false)
	draw.Draw(fb, fb.Bounds(), image.Black, image.Point{}, draw.Src)
	allPixels(t, fb, true)
	if fb.ColorModel() != image1bit.BitModel {
		t.Error("ColorModel() is not image1bit.BitModel")
	}
}
