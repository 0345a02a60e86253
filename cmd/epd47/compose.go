// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/paper/epd47"
)

const margin = 16

// compose lays out an optional image and text, black on white, and
// thresholds the result into a framebuffer of the given size.
func compose(width, height int, text, imagePath string, fontSize float64) (*epd47.Framebuffer, error) {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if imagePath != "" {
		im, err := gg.LoadImage(imagePath)
		if err != nil {
			return nil, err
		}
		dc.DrawImageAnchored(im, width/2, height/2, 0.5, 0.5)
	}

	if text != "" {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: fontSize}))
		dc.SetRGB(0, 0, 0)
		dc.DrawStringWrapped(text, float64(width)/2, float64(height)/2, 0.5, 0.5, float64(width-2*margin), 1.5, gg.AlignCenter)
	}

	fb := epd47.NewFramebuffer(width, height)
	draw.Draw(fb, fb.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return fb, nil
}
