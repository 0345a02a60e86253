// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd47 renders 1 bit per pixel images on the LilyGo T5 4.7"
// electrophoretic panel (ED047TC1, 960x540).
//
// The panel has no controller RAM. Every refresh pass streams each row as
// 2 bits per pixel drive symbols: 0b10 pushes a pixel towards white, 0b01
// towards black. A single pass is not enough for the particles to settle,
// so Flash and Render repeat the same frame a number of times (16 by
// default).
//
// The package owns the bit-depth expansion and the cycling. Framing, row
// clocking and power sequencing are delegated to a Bus; see package
// ed047tc1 for the GPIO implementation and package epd47test for a
// recorder and an emulator.
//
// # Datasheets
//
// https://github.com/vroland/epdiy/blob/main/doc/ED047TC1.pdf
//
// Product page:
//
// https://www.lilygo.cc/products/t5-4-7-inch-e-paper-v2-3
package epd47
