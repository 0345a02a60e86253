// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package paper is a container for e-paper drivers.
//
// epd47 composes and sequences frames for the 4.7" ED047TC1 panel of the
// LilyGo T5 board, ed047tc1 drives its bus from GPIO lines and
// nxp74hct4094 is the shift register holding its control lines.
package paper
