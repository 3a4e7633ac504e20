package epd

import appLog "epdframe/internal/log"

// wireRed is red as the controller expects it in the data stream.
const wireRed = 0b0100

// wireCode re-encodes a 2-bit framebuffer code as a 4-bit wire pixel.
func wireCode(c byte) byte {
	c &= 0b11
	if c == byte(Red) {
		return wireRed
	}
	return c
}

// encodeWire expands one packed byte into two wire bytes, left pixel in the
// high nibble.
func encodeWire(b byte) (byte, byte) {
	p0 := wireCode(b)
	p1 := wireCode(b >> 2)
	p2 := wireCode(b >> 4)
	p3 := wireCode(b >> 6)
	return p0<<4 | p1, p2<<4 | p3
}

// Flush sends the whole framebuffer and refreshes the panel. It powers the
// panel on first if needed and blocks until the refresh is over. There is
// no partial update; every call rewrites the full frame.
func (d *Dev) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flush()
}

func (d *Dev) flush() error {
	if err := d.setPower(PowerOn); err != nil {
		return err
	}

	eh := d.handler()
	eh.sendCommand(dataStartTransmission1)

	rows := d.fb.height
	cols := d.fb.Columns()
	line := make([]byte, 2*cols)
	for y := 0; y < rows && eh.err == nil; y++ {
		for x := 0; x < cols; x++ {
			line[2*x], line[2*x+1] = encodeWire(d.fb.At(rows*x + y))
		}
		eh.sendData(line...)
	}

	eh.sendCommand(displayRefresh)
	d.waitUntilIdle(eh)
	if eh.err != nil {
		return eh.err
	}
	appLog.Debug("epd flush done", "rows", rows, "bytes", rows*len(line))

	if d.opts.SleepAfterFlush {
		return d.setPower(PowerDeepSleep)
	}
	return nil
}
