package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"epdframe/internal/board"
	"epdframe/internal/config"
	"epdframe/internal/epd"
	appLog "epdframe/internal/log"
)

const version = "0.1.0"

type flagConfig struct {
	configPath string
	imagePath  string
	once       bool
	renderOnly bool
	dump       bool
	preview    bool
	clear      bool
}

func main() {
	os.Exit(run(parseFlags()))
}

// run returns the process exit code. Deferred cleanup, such as releasing
// the SPI port, has run by the time it returns.
func run(flags flagConfig) int {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		return 1
	}
	if flags.imagePath != "" {
		conf.Image.Path = flags.imagePath
	}
	if lvl, ok := appLog.ParseLevel(conf.LogLevel); ok {
		appLog.SetLevel(lvl)
	} else {
		appLog.Warn("unknown log level, using info", "log_level", conf.LogLevel)
	}

	appLog.Info("epdframe starting", "version", version)
	appLog.Info("effective config",
		"image", conf.Image.Path,
		"fit", conf.Image.Fit,
		"mode", conf.Image.Mode,
		"orientation", conf.Panel.Orientation,
		"refresh", conf.RefreshCron,
		"once", flags.once,
		"render_only", flags.renderOnly,
		"dump", flags.dump,
	)

	var bus epd.Bus
	var mem *epd.MemBus
	if flags.renderOnly {
		mem = epd.NewMemBus()
		bus = mem
	} else {
		b, err := board.Open(conf.SPI, conf.Pins)
		if err != nil {
			appLog.Error("failed to open panel bus", err)
			return 1
		}
		defer b.Close()
		bus = b.Bus
	}

	f, err := newFrame(bus, conf)
	if err != nil {
		appLog.Error("failed to initialize panel", err)
		return 1
	}
	f.mem = mem
	f.dump = flags.dump
	f.preview = flags.preview
	f.clear = flags.clear

	if flags.once || conf.RefreshCron == "" {
		err := f.refresh()
		if herr := f.dev.Halt(); herr != nil {
			appLog.Error("failed to put panel to sleep", herr)
		}
		if err != nil {
			appLog.Error("refresh failed", err)
			return 1
		}
		appLog.Info("epdframe exiting")
		return 0
	}

	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{})), cron.WithLogger(cronLogger{}))
	if _, err := sched.AddFunc(conf.RefreshCron, f.scheduled); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		return 1
	}
	f.scheduled()
	sched.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	appLog.Info("signal received, shutting down", "signal", sig.String())

	// Wait for a running refresh before putting the panel to sleep.
	<-sched.Stop().Done()
	if err := f.dev.Halt(); err != nil {
		appLog.Error("failed to put panel to sleep", err)
	}
	appLog.Info("epdframe exiting")
	return 0
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/epdframe/config.yaml", "Path to config file")
	flag.StringVar(&cfg.imagePath, "image", "", "Image to show (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one render+display cycle and exit")
	flag.BoolVar(&cfg.renderOnly, "render-only", false, "Render only; do not touch display hardware")
	flag.BoolVar(&cfg.dump, "dump", false, "Dump debug artifacts (preview.png, wire.bin)")
	flag.BoolVar(&cfg.preview, "preview", false, "Print the rendered frame on the terminal")
	flag.BoolVar(&cfg.clear, "clear", false, "Blank the panel instead of drawing the image")

	flag.Parse()

	return cfg
}

// cronLogger routes cron's own messages to the application log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	appLog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	appLog.Error("cron: "+msg, err, keysAndValues...)
}
