// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hct4094

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

// trace collects the bus events of fakeConn and fakePin in order.
type trace []string

type fakeConn struct {
	t   *trace
	err error
}

func (c *fakeConn) String() string                 { return "fake" }
func (c *fakeConn) Duplex() conn.Duplex            { return conn.Half }
func (c *fakeConn) TxPackets(p []spi.Packet) error { return errors.New("not supported") }

func (c *fakeConn) Tx(w, r []byte) error {
	*c.t = append(*c.t, fmt.Sprintf("tx %#x", w))
	return c.err
}

type fakePin struct {
	gpiotest.Pin
	t *trace
}

func (p *fakePin) Out(l gpio.Level) error {
	*p.t = append(*p.t, fmt.Sprintf("str %s", l))
	return p.Pin.Out(l)
}

func TestWriteOrder(t *testing.T) {
	var got trace
	dev, err := New(&fakeConn{t: &got}, &fakePin{t: &got})
	if err != nil {
		t.Fatal(err)
	}

	if err := dev.Write(0b1000_0010, 0xff); err != nil {
		t.Fatal(err)
	}
	// Unchanged, nothing is shifted.
	if err := dev.Pins[1].Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if err := dev.Pins[0].Out(gpio.High); err != nil {
		t.Fatal(err)
	}

	want := trace{
		"str Low",
		"tx 0x82", "str High", "str Low",
		"tx 0x83", "str High", "str Low",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("trace difference (-got +want):\n%s", diff)
	}
	if v := dev.Value(); v != 0x83 {
		t.Errorf("Value() = %#x, want 0x83", v)
	}
}

func TestFirstWriteOfZero(t *testing.T) {
	pb := &spitest.Record{Ops: make([]conntest.IO, 0)}
	defer pb.Close()
	c, err := pb.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	dev, err := New(c, &gpiotest.Pin{})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Write(0, 0xff); err != nil {
		t.Fatal(err)
	}
	if err := dev.Write(0, 0xff); err != nil {
		t.Fatal(err)
	}
	if len(pb.Ops) != 1 {
		t.Fatalf("got %d transfers, want 1", len(pb.Ops))
	}
	if diff := cmp.Diff(pb.Ops[0].W, []byte{0}); diff != "" {
		t.Errorf("Tx difference (-got +want):\n%s", diff)
	}
}

func TestPins(t *testing.T) {
	pb := &spitest.Record{Ops: make([]conntest.IO, 0)}
	defer pb.Close()
	c, err := pb.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	dev, err := New(c, &gpiotest.Pin{})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range dev.Pins {
		if p.Number() != i {
			t.Errorf("Pins[%d].Number() = %d", i, p.Number())
		}
		if want := fmt.Sprintf("74HCT4094_QP%d", i); p.Name() != want {
			t.Errorf("Pins[%d].Name() = %q, want %q", i, p.Name(), want)
		}
		if err := p.Out(gpio.High); err != nil {
			t.Fatal(err)
		}
	}
	if err := dev.Pins[3].Out(gpio.Low); err != nil {
		t.Fatal(err)
	}

	var got []byte
	for _, op := range pb.Ops {
		got = append(got, op.W...)
	}
	want := []byte{0x01, 0x03, 0x07, 0x0f, 0x1f, 0x3f, 0x7f, 0xff, 0xf7}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("transfers difference (-got +want):\n%s", diff)
	}
	if err := dev.Pins[0].PWM(gpio.DutyHalf, physic.KiloHertz); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("PWM() = %v, want %v", err, ErrNotImplemented)
	}
}

func TestTxError(t *testing.T) {
	var tr trace
	txErr := errors.New("bus fault")
	dev, err := New(&fakeConn{t: &tr, err: txErr}, &fakePin{t: &tr})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Write(1, 1); !errors.Is(err, txErr) {
		t.Errorf("Write() = %v, want %v", err, txErr)
	}
	// The failed value is not remembered, so a retry shifts again.
	if err := dev.Write(1, 1); !errors.Is(err, txErr) {
		t.Errorf("Write() = %v, want %v", err, txErr)
	}
	if n := len(tr); n != 3 {
		t.Errorf("got %d events, want 3: %v", n, tr)
	}
}

func TestHalt(t *testing.T) {
	var tr trace
	dev, err := New(&fakeConn{t: &tr}, &fakePin{t: &tr})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := dev.Write(1, 1); err == nil {
		t.Error("Write() after Halt() succeeded")
	}
	if s := dev.String(); s != "74HCT4094" {
		t.Errorf("String() = %q", s)
	}
}
