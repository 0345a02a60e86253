// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd47

import (
	"encoding/binary"
	"fmt"
)

// compositor builds wire rows in a single scratch buffer. The returned
// slices alias it and are only valid until the next call.
type compositor struct {
	t   Transport
	row []byte
}

func newCompositor(t Transport, rowBytes int) *compositor {
	return &compositor{
		t:   t,
		row: make([]byte, rowBytes),
	}
}

// fillRow returns a row driving every pixel towards c.
func (c *compositor) fillRow(col Color) []byte {
	v := DriveWhite
	if col == Black {
		v = DriveBlack
	}
	for i := range c.row {
		c.row[i] = v
	}
	c.t.ReorderLineBuffer(c.row)
	return c.row
}

// pixelRow expands one framebuffer row. Each source byte becomes one
// little-endian 16 bit word.
func (c *compositor) pixelRow(src []byte, inverse bool) []byte {
	if 2*len(src) != len(c.row) {
		panic(fmt.Sprintf("epd47: source row is %d bytes, want %d", len(src), len(c.row)/2))
	}
	for i, b := range src {
		w := lookup[b]
		if inverse {
			w = lookup[255-b]
		}
		binary.LittleEndian.PutUint16(c.row[2*i:], w)
	}
	c.t.ReorderLineBuffer(c.row)
	return c.row
}
