// Package board wires the panel to the host SPI port and GPIO pins through
// periph.io.
package board

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"epdframe/internal/config"
	"epdframe/internal/epd"
	appLog "epdframe/internal/log"
)

// Board owns the SPI port opened for the panel.
type Board struct {
	Bus  *epd.SPIBus
	port spi.PortCloser
}

// Open initializes periph.io, opens the configured SPI port and resolves
// the control pins by name.
func Open(spiCfg config.SPIConfig, pins config.PinsConfig) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("board: periph host init failed: %w", err)
	}

	dc, err := lookup("dc", pins.DC)
	if err != nil {
		return nil, err
	}
	rst, err := lookup("rst", pins.RST)
	if err != nil {
		return nil, err
	}
	busy, err := lookup("busy", pins.Busy)
	if err != nil {
		return nil, err
	}
	var cs gpio.PinOut
	if pins.CS != "" {
		p, err := lookup("cs", pins.CS)
		if err != nil {
			return nil, err
		}
		cs = p
	}

	// An empty name opens the first port, /dev/spidev0.0 on a Raspberry Pi.
	port, err := spireg.Open(spiCfg.Port)
	if err != nil {
		return nil, fmt.Errorf("board: failed to open SPI port %q: %w", spiCfg.Port, err)
	}
	bus, err := epd.NewSPIBus(port, dc, cs, rst, busy, &epd.SPIOpts{
		Frequency: physic.Frequency(spiCfg.Hz) * physic.Hertz,
	})
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	appLog.Info("panel bus ready", "bus", bus.String())
	return &Board{Bus: bus, port: port}, nil
}

func lookup(role, name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("board: %s pin %q not found", role, name)
	}
	return p, nil
}

// Close releases the SPI port.
func (b *Board) Close() error {
	return b.port.Close()
}
