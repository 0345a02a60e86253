// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47

// Drive symbols repeated over a whole byte, used to fill a row uniformly.
const (
	DriveWhite byte = 0b10101010
	DriveBlack byte = 0b01010101
)

// lookup translates 8 pixels at 1 bit per pixel into 8 drive symbols at
// 2 bits per pixel.
var lookup = buildLookup()

func buildLookup() (t [256]uint16) {
	for v := range t {
		var w uint16
		for bit := 7; bit >= 0; bit-- {
			w <<= 2
			if v&(1<<uint(bit)) != 0 {
				w |= 0b01
			} else {
				w |= 0b10
			}
		}
		t[v] = w
	}
	return t
}

// Expand returns the drive pattern for 8 pixels. Bit 7 of b maps to bits
// 15-14 of the result.
func Expand(b byte) uint16 {
	return lookup[b]
}

// ExpandInverse returns the drive pattern with black and white swapped.
func ExpandInverse(b byte) uint16 {
	return lookup[255-b]
}
