package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"epdframe/internal/config"
	"epdframe/internal/convert"
	"epdframe/internal/epd"
	appLog "epdframe/internal/log"
	"epdframe/internal/overlay"
	"epdframe/internal/termview"
)

// frame is one panel plus what to put on it.
type frame struct {
	dev    *epd.Dev
	image  config.ImageConfig
	render convert.Options

	// mem is set on render-only runs; its wire bytes go into the dump.
	mem     *epd.MemBus
	dump    bool
	dumpDir string
	preview bool
	// out receives the terminal preview. Nil means stdout.
	out   io.Writer
	clear bool
}

func newFrame(bus epd.Bus, conf *config.Config) (*frame, error) {
	fit, err := convert.ParseFit(conf.Image.Fit)
	if err != nil {
		return nil, err
	}
	o, err := epd.OrientationFromDegrees(conf.Panel.Orientation)
	if err != nil {
		return nil, err
	}

	opts := epd.DefaultOpts()
	opts.BusyPollInterval = conf.Panel.BusyPoll
	opts.BusyTimeout = conf.Panel.BusyTimeout
	opts.SleepAfterFlush = conf.Panel.SleepAfterFlush

	dev, err := epd.New(bus, opts)
	if err != nil {
		return nil, err
	}
	if err := dev.Init(); err != nil {
		return nil, err
	}
	if err := dev.SetOrientation(o); err != nil {
		return nil, err
	}
	appLog.Info("panel initialized", "dev", dev.String())

	return &frame{
		dev:   dev,
		image: conf.Image,
		render: convert.Options{
			Fit:      fit,
			Classify: conf.Image.Mode == config.ModeClassify,
			SnapRed:  conf.Image.SnapRed,
		},
		dumpDir: ".",
	}, nil
}

// refresh redraws the framebuffer and pushes it to the panel.
func (f *frame) refresh() error {
	start := time.Now()
	if f.clear {
		f.dev.Clear(epd.White)
	} else {
		if f.image.Path == "" {
			return errors.New("no image configured")
		}
		src, err := convert.Load(f.image.Path)
		if err != nil {
			return err
		}
		if err := convert.Render(f.dev, src, &f.render); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		overlay.Caption(f.dev.Displayer(), f.image.Caption, nil)
	}
	rendered := time.Since(start)

	if err := f.dev.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	appLog.Info("frame refreshed",
		"image", f.image.Path,
		"render", rendered.String(),
		"total", time.Since(start).String(),
	)

	if f.preview {
		if err := termview.New(f.out, nil).Show(f.dev.Preview()); err != nil {
			appLog.Warn("preview failed", "err", err)
		}
	}
	if f.dump {
		if err := f.writeDump(); err != nil {
			return fmt.Errorf("dump: %w", err)
		}
	}
	return nil
}

// scheduled is the cron job body.
func (f *frame) scheduled() {
	if err := f.refresh(); err != nil {
		appLog.Error("refresh failed", err)
	}
}

// writeDump stores preview.png and, on render-only runs, the streamed
// pixel data as wire.bin.
func (f *frame) writeDump() error {
	if err := os.MkdirAll(f.dumpDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(f.dumpDir, "preview.png")
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.dev.Preview()); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	appLog.Info("dumped preview", "path", path)

	if f.mem == nil {
		return nil
	}
	path = filepath.Join(f.dumpDir, "wire.bin")
	if err := os.WriteFile(path, f.mem.Data(), 0o644); err != nil {
		return err
	}
	appLog.Info("dumped wire data", "path", path)
	return nil
}
