// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ed047tc1 drives the source and gate drivers of an ED047TC1
// e-paper panel over GPIO. It implements epd47.Bus.
//
// The source driver shifts 4 pixels per CKH clock over an 8 bit data bus,
// starting on STH and transferring to its output stage on LE. The gate
// driver advances one row per CKV pulse after a start pulse on STV; the
// length of the CKV high phase is how long the row is driven.
//
// The slow control lines (LE, STV, MODE, OE, scan direction) and the supply
// enables are usually behind a shift register, see package nxp74hct4094.
//
// # Datasheets
//
// https://github.com/vroland/epdiy/blob/main/doc/ED047TC1.pdf
package ed047tc1
