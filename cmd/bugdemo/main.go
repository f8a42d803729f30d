// SPDX-License-Identifier: EPL-2.0

// Command bugdemo builds a small graph around a locally registered two-bus
// component, starts it, then tries to fan a player out to it while the
// engine is running. The engine refuses; the demo stops, makes the
// connection and renders again.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/audhost"
	"github.com/ik5/audhost/graph"
	"github.com/ik5/audhost/node"
	"github.com/ik5/audhost/unit"
)

var dryWetDescription = node.Description{
	Type:         node.TypeMixer,
	SubType:      node.MustFourCC("dwm2"),
	Manufacturer: node.MustFourCC("AuKt"),
	Flags:        node.FlagSandboxSafe,
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	driverKind := flag.String("driver", "", "Driver: ticker, manual, portaudio, oto (overrides config)")
	duration := flag.Duration("duration", 2*time.Second, "How long to render after the reconnect")
	file := flag.String("file", "", "Audio file for the player (wav, aiff, mp3, ogg)")
	record := flag.String("record", "", "Write the rendered mix to this WAV file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg := audhost.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = audhost.LoadConfig(*configPath); err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if *driverKind != "" {
		cfg.Driver = *driverKind
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, *duration, *file, *record); err != nil {
		logger.Error("bugdemo failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg audhost.Config, logger *slog.Logger, duration time.Duration, file, record string) error {
	engine, err := audhost.New(cfg, audhost.WithLogger(logger))
	if err != nil {
		return err
	}
	defer engine.Teardown()

	opts := unit.Options{Format: cfg.Format(), MaximumFramesToRender: cfg.MaximumFramesToRender}
	err = engine.Registry().Register(dryWetDescription, "Local DryWetMixer", math.MaxUint32,
		func(d node.Description) (node.Node, error) { return unit.NewPassthrough(d, opts) })
	if err != nil {
		return err
	}

	dryWet, err := engine.Instantiate(ctx, dryWetDescription)
	if err != nil {
		return err
	}
	logger.Info("instantiated", "node", dryWet.Name(), "description", dryWetDescription.String())

	n, err := engine.Instantiate(ctx, unit.PlayerDescription)
	if err != nil {
		return err
	}
	player := n.(*unit.Player)

	outputMixer, err := unit.NewMixer(unit.MixerDescription, opts)
	if err != nil {
		return err
	}
	someOtherMixer, err := unit.NewMixer(unit.MixerDescription, opts)
	if err != nil {
		return err
	}
	mainMixer, err := engine.MainMixer()
	if err != nil {
		return err
	}

	var recorder *unit.Recorder
	for _, nd := range []node.Node{player, dryWet, outputMixer, someOtherMixer} {
		if err := engine.Attach(nd); err != nil {
			return err
		}
	}
	if err := connectNext(engine, dryWet, outputMixer); err != nil {
		return err
	}
	if err := connectNext(engine, someOtherMixer, outputMixer); err != nil {
		return err
	}
	if record != "" {
		if recorder, err = unit.NewRecorder(unit.RecorderDescription, opts); err != nil {
			return err
		}
		if err := recorder.SetCapacity(int(cfg.SampleRate*duration.Seconds()) + cfg.FramesPerPeriod); err != nil {
			return err
		}
		if err := engine.Attach(recorder); err != nil {
			return err
		}
		if err := engine.Connect(outputMixer, 0, recorder, 0, nil); err != nil {
			return err
		}
		if err := connectNext(engine, recorder, mainMixer); err != nil {
			return err
		}
	} else if err := connectNext(engine, outputMixer, mainMixer); err != nil {
		return err
	}

	if err := engine.Start(ctx); err != nil {
		return err
	}

	err = fanOut(engine, player, dryWet, someOtherMixer)
	switch {
	case errors.Is(err, audhost.ErrEngineRunning):
		logger.Warn("connect refused while running, stopping first", "error", err)
	case err != nil:
		return err
	}

	if err := engine.Stop(); err != nil {
		return err
	}
	if err := fanOut(engine, player, dryWet, someOtherMixer); err != nil {
		return err
	}

	if file != "" {
		if err := player.ScheduleFile(engine.Decoders(), file); err != nil {
			return err
		}
		player.SetLoop(true)
		if err := player.Play(); err != nil {
			return err
		}
	}
	if err := engine.Start(ctx); err != nil {
		return err
	}
	if recorder != nil {
		if err := recorder.Arm(); err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}

	if err := engine.Stop(); err != nil {
		return err
	}
	st := engine.Stats()
	logger.Info("done", "periods", st.Periods, "degraded", st.DegradedPeriods, "frames", st.LastSampleTime)

	if recorder != nil {
		recorder.Disarm()
		f, err := os.Create(record)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := recorder.WriteWAV(f, 16); err != nil {
			return err
		}
		logger.Info("recorded", "path", record, "frames", recorder.Frames())
	}
	return nil
}

func connectNext(engine *audhost.Engine, from, to node.Node) error {
	bus, err := engine.NextAvailableInputBus(to)
	if err != nil {
		return err
	}
	return engine.Connect(from, 0, to, bus, nil)
}

// fanOut connects the player to both dry/wet inputs and a fresh bus on the
// other mixer in one call.
func fanOut(engine *audhost.Engine, player *unit.Player, dryWet node.Node, mixer *unit.Mixer) error {
	bus, err := engine.NextAvailableInputBus(mixer)
	if err != nil {
		return err
	}
	return engine.ConnectPoints(player, 0, []graph.ConnectionPoint{
		{Node: dryWet, Bus: 0},
		{Node: dryWet, Bus: 1},
		{Node: mixer, Bus: bus},
	}, nil)
}
