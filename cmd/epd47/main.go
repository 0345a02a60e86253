// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epd47 draws text or an image on a 4.7" ED047TC1 e-paper panel.
//
// Without -emulate the panel is driven through the Raspberry Pi header, or
// the pins named in the -config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/paper/ed047tc1"
	"github.com/GermanBionicSystems/paper/epd47"
	"github.com/GermanBionicSystems/paper/epd47/epd47test"
	"github.com/GermanBionicSystems/paper/nxp74hct4094"
	"github.com/GermanBionicSystems/paper/preview"
)

// openBus returns the hardware bus described by cfg. The returned function
// releases the SPI port.
func openBus(cfg *config, opts *epd47.Opts) (epd47.Bus, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	p, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, nil, err
	}
	fail := func(err error) (epd47.Bus, func() error, error) {
		p.Close()
		return nil, nil, err
	}
	if cfg.Pins.empty() {
		d, err := ed047tc1.NewRaspberryPi(p, opts)
		if err != nil {
			return fail(err)
		}
		return d, p.Close, nil
	}
	w, err := cfg.Pins.resolve()
	if err != nil {
		return fail(err)
	}
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return fail(err)
	}
	reg, err := nxp74hct4094.New(c, w.strobe)
	if err != nil {
		return fail(err)
	}
	d, err := ed047tc1.New(&ed047tc1.Opts{
		Data:     w.data,
		CKH:      w.ckh,
		STH:      w.sth,
		CKV:      w.ckv,
		Config:   ed047tc1.ConfigRegister(reg),
		RowBytes: opts.RowBytes(),
	})
	if err != nil {
		return fail(err)
	}
	return d, p.Close, nil
}

// serve refreshes on schedule and serves HTTP until interrupted.
func serve(r *refresher, schedule, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(schedule, func() {
			if err := r.refresh(); err != nil {
				fmt.Fprintf(os.Stderr, "epd47: %s.\n", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule %q: %w", schedule, err)
		}
		c.Start()
		defer c.Stop()
		log.Printf("refreshing on %q", schedule)
	}

	errc := make(chan error, 1)
	if addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(newStatsCollector(&r.mu, r.dev))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		if r.sink != nil {
			mux.Handle("/", r.sink)
			defer r.sink.Halt()
		}
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
		defer srv.Close()
		log.Printf("serving on %s", addr)
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		return err
	}
}

func mainImpl() error {
	cfgPath := flag.String("config", "", "YAML configuration file")
	spiName := flag.String("spi", "", "SPI port of the configuration register")
	flash := flag.String("flash", "", "flash the panel white or black before drawing")
	text := flag.String("text", "", "text to draw")
	imagePath := flag.String("image", "", "image file to draw")
	cycles := flag.Int("cycles", 0, "passes per refresh, 0 to use the configured value")
	inverse := flag.Bool("inverse", false, "render the negative before the image")
	emulate := flag.Bool("emulate", false, "print to the terminal instead of driving the panel")
	scale := flag.Int("scale", 8, "pixels per character with -emulate")
	schedule := flag.String("schedule", "", "cron expression to refresh periodically")
	listen := flag.String("http", "", "address to serve metrics and the emulated panel on")
	quiet := flag.Bool("quiet", false, "do not print the emulated panel")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *spiName != "" {
		cfg.SPI = *spiName
	}
	if *cycles != 0 {
		cfg.Cycles = *cycles
	}
	if *schedule != "" {
		cfg.Schedule = *schedule
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	opts, err := cfg.opts()
	if err != nil {
		return err
	}

	r := &refresher{
		text:      *text,
		imagePath: *imagePath,
		fontSize:  cfg.FontSize,
		inverse:   *inverse,
		cycles:    cfg.Cycles,
		scale:     *scale,
	}
	if *flash != "" {
		var c epd47.Color
		if err := c.Set(*flash); err != nil {
			return err
		}
		r.flash = &c
	}

	var bus epd47.Bus
	if *emulate {
		r.panel = epd47test.NewPanel(opts.Width, opts.Height)
		if !*quiet {
			r.out = colorable.NewColorableStdout()
		}
		if cfg.Listen != "" {
			r.sink = preview.New(preview.PNG, r.panel.Image())
		}
		bus = r.panel
	} else {
		b, closer, err := openBus(cfg, opts)
		if err != nil {
			return err
		}
		defer closer()
		bus = b
	}
	log.Printf("using %s", bus)

	if r.dev, err = epd47.New(bus, opts); err != nil {
		return err
	}
	if err := r.dev.Init(); err != nil {
		return err
	}
	defer r.dev.Deinit()

	if err := r.refresh(); err != nil {
		return err
	}
	if cfg.Schedule == "" && cfg.Listen == "" {
		return nil
	}
	return serve(r, cfg.Schedule, cfg.Listen)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "epd47: %s.\n", err)
		os.Exit(1)
	}
}
