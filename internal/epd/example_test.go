package epd_test

import (
	"fmt"
	"image/color"
	"log"

	"epdframe/internal/epd"
)

func Example() {
	bus := epd.NewMemBus()
	opts := epd.DefaultOpts()
	opts.Model = epd.Model{Name: "demo", Width: 8, Height: 2, Cal: epd.WS75B.Cal}
	opts.BusyPollInterval = 1
	dev, err := epd.New(bus, opts)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}

	if err := dev.SetPixel(0, 0, color.RGBA{R: 0xFF, A: 0xFF}); err != nil {
		log.Fatal(err)
	}
	if err := dev.SetPixel(1, 0, color.Black); err != nil {
		log.Fatal(err)
	}
	if err := dev.Flush(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("% x\n", bus.Data())
	fmt.Println(dev)
	// Output:
	// 40 33 33 33 33 33 33 33
	// epd.Dev{demo, 0°, Width: 8, Height: 2, Power: deep-sleep}
}
