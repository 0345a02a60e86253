// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed047tc1

// Reorder swaps the 16 bit halves of every little-endian 32 bit word of
// row, the order in which the bus shifts them out. A trailing partial word
// is left alone. Reorder is its own inverse.
func Reorder(row []byte) {
	for i := 0; i+4 <= len(row); i += 4 {
		row[i], row[i+1], row[i+2], row[i+3] = row[i+2], row[i+3], row[i], row[i+1]
	}
}
