package epd

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

type testPins struct {
	dc, cs, rst, busy *gpiotest.Pin
}

func newTestSPIBus(t *testing.T) (*SPIBus, *spitest.Record, testPins) {
	t.Helper()
	pins := testPins{
		dc:   &gpiotest.Pin{N: "DC"},
		cs:   &gpiotest.Pin{N: "CS"},
		rst:  &gpiotest.Pin{N: "RST"},
		busy: &gpiotest.Pin{N: "BUSY", L: gpio.High},
	}
	record := &spitest.Record{}
	b, err := NewSPIBus(record, pins.dc, pins.cs, pins.rst, pins.busy, nil)
	if err != nil {
		t.Fatalf("NewSPIBus() failed: %v", err)
	}
	return b, record, pins
}

func TestNewSPIBus(t *testing.T) {
	_, record, pins := newTestSPIBus(t)
	if pins.rst.L != gpio.High {
		t.Error("reset is asserted after NewSPIBus()")
	}
	if pins.cs.L != gpio.High {
		t.Error("chip is selected after NewSPIBus()")
	}
	if len(record.Ops) != 0 {
		t.Errorf("NewSPIBus() wrote %v", record.Ops)
	}
	if _, err := NewSPIBus(&spitest.Record{}, nil, nil, pins.rst, pins.busy, nil); err == nil {
		t.Error("NewSPIBus() without dc succeeded")
	}
}

func TestSPIBusWrites(t *testing.T) {
	b, record, pins := newTestSPIBus(t)

	if err := b.WriteCommand(boosterSoftStart); err != nil {
		t.Fatal(err)
	}
	if pins.dc.L != gpio.Low {
		t.Error("dc is high after a command")
	}
	if err := b.WriteData(0xC7); err != nil {
		t.Fatal(err)
	}
	if pins.dc.L != gpio.High {
		t.Error("dc is low after data")
	}
	if err := b.WriteDataBlock([]byte{0xCC, 0x28}); err != nil {
		t.Fatal(err)
	}
	if pins.cs.L != gpio.High {
		t.Error("chip still selected after the transfer")
	}

	want := []conntest.IO{
		{W: []byte{boosterSoftStart}},
		{W: []byte{0xC7}},
		{W: []byte{0xCC, 0x28}},
	}
	if diff := cmp.Diff(record.Ops, want); diff != "" {
		t.Errorf("Tx difference (-got +want):\n%s", diff)
	}
}

func TestSPIBusChunks(t *testing.T) {
	b, record, _ := newTestSPIBus(t)
	b.maxTxSize = 4

	if err := b.WriteDataBlock([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}); err != nil {
		t.Fatal(err)
	}
	want := []conntest.IO{
		{W: []byte{1, 2, 3, 4}},
		{W: []byte{5, 6, 7, 8}},
		{W: []byte{9, 10}},
	}
	if diff := cmp.Diff(record.Ops, want); diff != "" {
		t.Errorf("Tx difference (-got +want):\n%s", diff)
	}
}

func TestSPIBusControlPins(t *testing.T) {
	b, _, pins := newTestSPIBus(t)

	if err := b.SetReset(true); err != nil {
		t.Fatal(err)
	}
	if pins.rst.L != gpio.Low {
		t.Error("SetReset(true) left rst high")
	}
	if err := b.SetReset(false); err != nil {
		t.Fatal(err)
	}
	if pins.rst.L != gpio.High {
		t.Error("SetReset(false) left rst low")
	}

	for _, tc := range []struct {
		level gpio.Level
		busy  bool
	}{
		{gpio.High, false},
		{gpio.Low, true},
	} {
		pins.busy.L = tc.level
		got, err := b.Busy()
		if err != nil || got != tc.busy {
			t.Errorf("Busy() with %s = %t, %v; want %t", tc.level, got, err, tc.busy)
		}
	}
}

func TestDevOverSPI(t *testing.T) {
	b, record, _ := newTestSPIBus(t)
	d, err := New(b, &Opts{Model: tinyModel})
	if err != nil {
		t.Fatal(err)
	}
	d.sleep = func(_ time.Duration) {}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	// The last two transfers are the final data row and the refresh.
	n := len(record.Ops)
	if n < 2 {
		t.Fatalf("only %d transfers", n)
	}
	if diff := cmp.Diff(record.Ops[n-1].W, []byte{displayRefresh}); diff != "" {
		t.Errorf("last transfer difference (-got +want):\n%s", diff)
	}
	if got := len(record.Ops[n-2].W); got != 6 {
		t.Errorf("row transfer is %d bytes, want 6", got)
	}
}
