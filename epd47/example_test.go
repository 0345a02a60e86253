// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47_test

import (
	"fmt"
	"image"
	"log"

	"github.com/GermanBionicSystems/paper/epd47"
	"github.com/GermanBionicSystems/paper/epd47/epd47test"
)

func Example() {
	// Use ed047tc1.NewRaspberryPi() to drive real hardware.
	panel := epd47test.NewPanel(16, 4)
	dev, err := epd47.New(panel, &epd47.Opts{Width: 16, Height: 4})
	if err != nil {
		log.Fatalf("failed to initialize epd47: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	if err := dev.PowerOn(); err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()

	if err := dev.Clear(); err != nil {
		log.Fatal(err)
	}
	fb := epd47.NewFramebuffer(16, 4)
	for x := 0; x < 16; x++ {
		_ = fb.SetPixel(x, 1, true)
	}
	if err := dev.Render(fb); err != nil {
		log.Fatal(err)
	}
	fmt.Println(panel.Image().GrayAt(0, 0).Y, panel.Image().GrayAt(0, 1).Y)
	// Output: 254 0
}

func ExampleDev_Draw() {
	panel := epd47test.NewPanel(32, 8)
	dev, err := epd47.New(panel, &epd47.Opts{Width: 32, Height: 8})
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	if err := dev.PowerOn(); err != nil {
		log.Fatal(err)
	}
	// Any image is converted to black and white.
	img := image.NewGray(image.Rect(0, 0, 32, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Pix[3] = 0
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}
	fmt.Println(panel.Level(3, 0), panel.Level(4, 0))
	// Output: 8 -8
}
