package epd

import (
	"fmt"
	"time"
)

// Bus is the 4-wire transport to the panel controller. All calls are
// synchronous.
type Bus interface {
	// WriteCommand sends one byte with the data/command line low.
	WriteCommand(cmd byte) error
	// WriteData sends one byte with the data/command line high.
	WriteData(b byte) error
	// WriteDataBlock sends a run of data bytes.
	WriteDataBlock(data []byte) error
	// Busy reports whether the controller is still processing.
	Busy() (bool, error)
	// SetReset drives the reset line. active=true holds the controller in
	// reset.
	SetReset(active bool) error
}

// errorHandler wraps a Bus and keeps the first error so that register
// bursts read as a flat list of writes.
type errorHandler struct {
	bus   Bus
	sleep func(time.Duration)
	err   error
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}
	if err := eh.bus.WriteCommand(cmd); err != nil {
		eh.err = fmt.Errorf("epd: command 0x%02X: %w", cmd, err)
	}
}

func (eh *errorHandler) sendData(data ...byte) {
	if eh.err != nil || len(data) == 0 {
		return
	}
	var err error
	if len(data) == 1 {
		err = eh.bus.WriteData(data[0])
	} else {
		err = eh.bus.WriteDataBlock(data)
	}
	if err != nil {
		eh.err = fmt.Errorf("epd: data: %w", err)
	}
}

// writeReg sends a command followed by its payload.
func (eh *errorHandler) writeReg(cmd byte, data []byte) {
	eh.sendCommand(cmd)
	eh.sendData(data...)
}

func (eh *errorHandler) setReset(active bool) {
	if eh.err != nil {
		return
	}
	if err := eh.bus.SetReset(active); err != nil {
		eh.err = fmt.Errorf("epd: reset: %w", err)
	}
}

func (eh *errorHandler) delay(d time.Duration) {
	if eh.err != nil {
		return
	}
	eh.sleep(d)
}

// waitUntilIdle polls the busy line every interval. A zero timeout waits
// forever.
func (eh *errorHandler) waitUntilIdle(interval, timeout time.Duration) {
	if eh.err != nil {
		return
	}
	var waited time.Duration
	for {
		busy, err := eh.bus.Busy()
		if err != nil {
			eh.err = fmt.Errorf("epd: busy: %w", err)
			return
		}
		if !busy {
			return
		}
		if timeout > 0 && waited >= timeout {
			eh.err = fmt.Errorf("%w after %s", ErrPanelTimeout, waited)
			return
		}
		eh.sleep(interval)
		waited += interval
	}
}
