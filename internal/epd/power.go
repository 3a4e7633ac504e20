package epd

import (
	"fmt"

	appLog "epdframe/internal/log"
)

// PowerMode is the controller power state.
type PowerMode uint8

const (
	// powerUnknown is the state before the first cold start.
	powerUnknown PowerMode = iota
	PowerOff
	PowerOn
	PowerSleep
	PowerDeepSleep
)

func (m PowerMode) valid() bool {
	return m >= PowerOff && m <= PowerDeepSleep
}

func (m PowerMode) String() string {
	switch m {
	case powerUnknown:
		return "unknown"
	case PowerOff:
		return "off"
	case PowerOn:
		return "on"
	case PowerSleep:
		return "sleep"
	case PowerDeepSleep:
		return "deep-sleep"
	default:
		return fmt.Sprintf("PowerMode(%d)", uint8(m))
	}
}

// ParsePowerMode maps "off", "on", "sleep" and "deep-sleep" to a PowerMode.
func ParsePowerMode(s string) (PowerMode, error) {
	switch s {
	case "off":
		return PowerOff, nil
	case "on":
		return PowerOn, nil
	case "sleep":
		return PowerSleep, nil
	case "deep-sleep", "deepsleep":
		return PowerDeepSleep, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPowerMode, s)
}

// setPower runs the command sequence for a transition to m. The caller
// holds d.mu.
func (d *Dev) setPower(m PowerMode) error {
	if !m.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPowerMode, uint8(m))
	}
	if d.power == m {
		return nil
	}

	eh := d.handler()
	if m == PowerOn {
		d.reset(eh)
		d.startUp(eh)
	} else {
		d.powerDown(eh)
	}
	if eh.err != nil {
		return eh.err
	}

	appLog.Debug("epd power transition", "from", d.power, "to", m)
	d.power = m
	return nil
}

// reset pulses the reset line. The controller needs ResetDelay on each
// edge to finish its internal reset.
func (d *Dev) reset(eh *errorHandler) {
	eh.setReset(true)
	eh.delay(d.opts.ResetDelay)
	eh.setReset(false)
	eh.delay(d.opts.ResetDelay)
}

// startUp is the power-on register burst. It ends with the controller
// expecting image data.
func (d *Dev) startUp(eh *errorHandler) {
	cal := &d.opts.Model.Cal

	eh.writeReg(powerSetting, cal.PowerSetting)
	eh.writeReg(panelSetting, cal.PanelSetting)
	eh.writeReg(boosterSoftStart, cal.BoosterSoftStart)
	eh.sendCommand(powerOn)
	d.waitUntilIdle(eh)

	eh.writeReg(pllControl, cal.PLL)
	eh.writeReg(tempSensorControl, cal.TempSensor)
	eh.writeReg(vcomAndDataIntervalSetting, cal.VCOMInterval)
	eh.writeReg(tconSetting, cal.TCON)
	eh.writeReg(tconResolution, cal.TCONResolution)
	eh.writeReg(vcmDCSetting, cal.VCMDC)
	eh.writeReg(flashMode, cal.FlashMode)

	eh.sendCommand(dataStartTransmission1)
	eh.delay(d.opts.SettleDelay)
}

// powerDown turns the charge pumps off and puts the controller in deep
// sleep. Only a reset wakes it up again.
func (d *Dev) powerDown(eh *errorHandler) {
	eh.sendCommand(powerOff)
	eh.writeReg(deepSleep, []byte{deepSleepCheck})
}

func (d *Dev) waitUntilIdle(eh *errorHandler) {
	eh.waitUntilIdle(d.opts.BusyPollInterval, d.opts.BusyTimeout)
}
