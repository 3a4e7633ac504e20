package epd

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultSPIFrequency is the clock used when SPIOpts.Frequency is zero.
const DefaultSPIFrequency = 2 * physic.MegaHertz

// SPIOpts configures NewSPIBus.
type SPIOpts struct {
	Frequency physic.Frequency
}

// SPIBus is a Bus over a periph.io SPI port plus the DC, RST and BUSY pins.
// CS is optional: leave it nil when the SPI driver toggles chip select.
type SPIBus struct {
	c         conn.Conn
	maxTxSize int

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn
}

// NewSPIBus connects to p in mode 0 and takes over the control pins.
func NewSPIBus(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *SPIOpts) (*SPIBus, error) {
	if dc == nil || rst == nil || busy == nil {
		return nil, fmt.Errorf("epd: dc, rst and busy pins are required")
	}
	f := DefaultSPIFrequency
	if opts != nil && opts.Frequency > 0 {
		f = opts.Frequency
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("epd: failed to connect SPI: %w", err)
	}

	// Get the maxTxSize from the conn if it implements the conn.Limits
	// interface, otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}

	b := &SPIBus{c: c, maxTxSize: maxTxSize, dc: dc, cs: cs, rst: rst, busy: busy}
	if err := b.rst.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("epd: rst: %w", err)
	}
	if err := b.selectChip(false); err != nil {
		return nil, err
	}
	if err := b.busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("epd: busy: %w", err)
	}
	return b, nil
}

func (b *SPIBus) selectChip(on bool) error {
	if b.cs == nil {
		return nil
	}
	l := gpio.High
	if on {
		l = gpio.Low
	}
	if err := b.cs.Out(l); err != nil {
		return fmt.Errorf("epd: cs: %w", err)
	}
	return nil
}

func (b *SPIBus) write(dc gpio.Level, data []byte) error {
	if err := b.dc.Out(dc); err != nil {
		return fmt.Errorf("epd: dc: %w", err)
	}
	if err := b.selectChip(true); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > b.maxTxSize {
			n = b.maxTxSize
		}
		if err := b.c.Tx(data[:n], nil); err != nil {
			_ = b.selectChip(false)
			return err
		}
		data = data[n:]
	}
	return b.selectChip(false)
}

// WriteCommand sends cmd with DC low.
func (b *SPIBus) WriteCommand(cmd byte) error {
	return b.write(gpio.Low, []byte{cmd})
}

// WriteData sends one data byte with DC high.
func (b *SPIBus) WriteData(d byte) error {
	return b.write(gpio.High, []byte{d})
}

// WriteDataBlock sends data with DC high, split in MaxTxSize chunks.
func (b *SPIBus) WriteDataBlock(data []byte) error {
	return b.write(gpio.High, data)
}

// Busy reads the BUSY pin, which the controller pulls low while working.
func (b *SPIBus) Busy() (bool, error) {
	return b.busy.Read() == gpio.Low, nil
}

// SetReset drives RST, which is active low.
func (b *SPIBus) SetReset(active bool) error {
	l := gpio.High
	if active {
		l = gpio.Low
	}
	return b.rst.Out(l)
}

func (b *SPIBus) String() string {
	return fmt.Sprintf("epd.SPIBus{%s, dc: %s, rst: %s, busy: %s}", b.c, b.dc, b.rst, b.busy)
}

var _ Bus = &SPIBus{}
