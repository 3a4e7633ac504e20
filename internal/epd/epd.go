package epd

import (
	"fmt"
	"image/color"
	"sync"
	"time"
)

// MinResetDelay is the shortest reset hold the controller accepts.
const MinResetDelay = 200 * time.Millisecond

// Opts defines the driver configuration.
type Opts struct {
	// Model selects resolution and calibration. Zero value means WS75B.
	Model Model
	// ResetDelay is held on each edge of the reset pulse. Values below
	// MinResetDelay are raised to it.
	ResetDelay time.Duration
	// SettleDelay follows the power-on burst.
	SettleDelay time.Duration
	// BusyPollInterval is the sleep between busy line polls.
	BusyPollInterval time.Duration
	// BusyTimeout bounds every busy wait. Zero waits forever.
	BusyTimeout time.Duration
	// SleepAfterFlush puts the panel in deep sleep after every refresh.
	SleepAfterFlush bool
}

// DefaultOpts returns the timings used by the panel vendor.
func DefaultOpts() *Opts {
	return &Opts{
		Model:            WS75B,
		ResetDelay:       MinResetDelay,
		SettleDelay:      2 * time.Millisecond,
		BusyPollInterval: 100 * time.Millisecond,
		SleepAfterFlush:  true,
	}
}

func (o *Opts) normalize() {
	if o.Model.Width == 0 || o.Model.Height == 0 {
		o.Model = WS75B
	}
	if o.ResetDelay < MinResetDelay {
		o.ResetDelay = MinResetDelay
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 2 * time.Millisecond
	}
	if o.BusyPollInterval <= 0 {
		o.BusyPollInterval = 100 * time.Millisecond
	}
	if o.BusyTimeout < 0 {
		o.BusyTimeout = 0
	}
}

// Dev is a handle to one panel. It owns the framebuffer and the bus; every
// exported method holds the bus for its whole duration.
type Dev struct {
	mu sync.Mutex

	bus  Bus
	opts Opts
	fb   *Framebuffer

	orientation Orientation
	power       PowerMode
	offsets     [9]int

	sleep func(time.Duration)
}

// New allocates the framebuffer and returns a device. It does not touch the
// bus; call Init to cold start the panel. The framebuffer starts white.
func New(bus Bus, opts *Opts) (*Dev, error) {
	if bus == nil {
		return nil, fmt.Errorf("epd: nil bus")
	}
	o := DefaultOpts()
	if opts != nil {
		o = &Opts{}
		*o = *opts
	}
	o.normalize()

	fb, err := NewFramebuffer(o.Model.Width, o.Model.Height)
	if err != nil {
		return nil, err
	}
	fb.Fill(0xFF)

	return &Dev{
		bus:     bus,
		opts:    *o,
		fb:      fb,
		offsets: ditherOffsets(),
		sleep:   time.Sleep,
	}, nil
}

// Init cold starts the panel: reset pulse, power-on burst, ready for data.
// Orientation resets to Rotate0.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.orientation = Rotate0
	d.power = powerUnknown
	return d.setPower(PowerOn)
}

func (d *Dev) handler() *errorHandler {
	return &errorHandler{bus: d.bus, sleep: d.sleep}
}

// Width returns the logical width for the current orientation.
func (d *Dev) Width() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, _ := d.logicalSize()
	return w
}

// Height returns the logical height for the current orientation.
func (d *Dev) Height() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, h := d.logicalSize()
	return h
}

func (d *Dev) logicalSize() (int, int) {
	if d.orientation.swapsAxes() {
		return d.opts.Model.Height, d.opts.Model.Width
	}
	return d.opts.Model.Width, d.opts.Model.Height
}

// Orientation returns the active orientation.
func (d *Dev) Orientation() Orientation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.orientation
}

// PowerMode returns the tracked controller power state.
func (d *Dev) PowerMode() PowerMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.power
}

// SetPixel stores c at logical (x, y). Colors other than exact black,
// white and red are dithered. Nothing is sent to the panel until Flush.
func (d *Dev) SetPixel(x, y int, c color.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setPixel(x, y, c)
}

func (d *Dev) setPixel(x, y int, c color.Color) error {
	w, h := d.logicalSize()
	if x < 0 || y < 0 || x >= w || y >= h {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, w, h)
	}
	nx, ny := toNative(d.orientation, x, y, d.opts.Model.Width, d.opts.Model.Height)
	d.fb.setCode(nx, ny, reduce(&d.offsets, c, nx, ny))
	return nil
}

// Clear sets every pixel to c. Dithered colors produce the matrix tile.
func (d *Dev) Clear(c color.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for x := 0; x < d.opts.Model.Width; x++ {
		for y := 0; y < d.opts.Model.Height; y++ {
			d.fb.setCode(x, y, reduce(&d.offsets, c, x, y))
		}
	}
}

// SetOrientation changes the logical coordinate space. The framebuffer and
// the panel are left alone.
func (d *Dev) SetOrientation(o Orientation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setOrientation(o)
}

func (d *Dev) setOrientation(o Orientation) error {
	if !o.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOrientation, uint8(o))
	}
	d.orientation = o
	return nil
}

// SetPowerMode executes the transition to m right away. Requesting the
// current mode does nothing.
func (d *Dev) SetPowerMode(m PowerMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setPower(m)
}

// Halt puts the panel in deep sleep. It implements conn.Resource.
func (d *Dev) Halt() error {
	return d.SetPowerMode(PowerDeepSleep)
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, h := d.logicalSize()
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d, Power: %s}", d.opts.Model.Name, d.orientation, w, h, d.power)
}
