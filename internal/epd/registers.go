package epd

// Commands
const (
	panelSetting               byte = 0x00
	powerSetting               byte = 0x01
	powerOff                   byte = 0x02
	powerOn                    byte = 0x04
	boosterSoftStart           byte = 0x06
	deepSleep                  byte = 0x07
	dataStartTransmission1     byte = 0x10
	displayRefresh             byte = 0x12
	pllControl                 byte = 0x30
	tempSensorControl          byte = 0x41
	vcomAndDataIntervalSetting byte = 0x50
	tconSetting                byte = 0x60
	tconResolution             byte = 0x61
	vcmDCSetting               byte = 0x82
	flashMode                  byte = 0xE5
)

// deepSleepCheck must follow deepSleep or the controller ignores the request.
const deepSleepCheck byte = 0xA5

// Calibration holds the register payloads written during power-on.
type Calibration struct {
	PowerSetting     []byte
	PanelSetting     []byte
	BoosterSoftStart []byte
	PLL              []byte
	TempSensor       []byte
	VCOMInterval     []byte
	TCON             []byte
	TCONResolution   []byte
	VCMDC            []byte
	FlashMode        []byte
}

// Model describes a panel: native resolution plus calibration. Supporting
// another panel of the same controller family means adding a Model.
type Model struct {
	Name   string
	Width  int
	Height int
	Cal    Calibration
}

// WS75B is the Waveshare 7.5" (B) 640x384 black/white/red panel.
var WS75B = Model{
	Name:   "ws75b",
	Width:  640,
	Height: 384,
	Cal: Calibration{
		PowerSetting:     []byte{0x37, 0x00},
		PanelSetting:     []byte{0xCF, 0x08},
		BoosterSoftStart: []byte{0xC7, 0xCC, 0x28},
		PLL:              []byte{0x3C},
		TempSensor:       []byte{0x00},
		VCOMInterval:     []byte{0x77},
		TCON:             []byte{0x22},
		TCONResolution:   []byte{0x02, 0x80, 0x01, 0x80},
		VCMDC:            []byte{0x1E},
		FlashMode:        []byte{0x03},
	},
}
