// SPDX-License-Identifier: EPL-2.0

// Package audhost hosts a graph of audio processing nodes and renders it in
// real time.
//
// An Engine owns the graph. Nodes are created from a component registry or
// directly from the unit package, attached, and connected bus to bus; Start
// allocates every node's render resources, freezes the render order into a
// plan and hands it to a driver that calls it once per period.
//
// # Quick Start
//
//	cfg := audhost.DefaultConfig()
//	engine, _ := audhost.New(cfg)
//
//	mixer, _ := engine.MainMixer() // connected to the output node
//	n, _ := engine.Instantiate(ctx, unit.PlayerDescription)
//	player := n.(*unit.Player)
//	_ = player.ScheduleFile(engine.Decoders(), "loop.ogg")
//
//	_ = engine.Attach(player)
//	bus, _ := engine.NextAvailableInputBus(mixer)
//	_ = engine.Connect(player, 0, mixer, bus, nil)
//
//	if err := engine.Start(ctx); err != nil {
//	    // errors.Is(err, audhost.ErrEngineNotReady)
//	}
//	_ = player.Play()
//	defer engine.Teardown()
//
// # Topology And Sessions
//
// The graph can only change while the engine is stopped. Changes made while
// running fail with ErrEngineRunning. Stop keeps the nodes allocated so a
// later Start resumes immediately; any topology change after Stop releases
// them and the next Start prepares the graph again. Teardown stops and
// releases everything.
//
// # Configuration
//
// Config can be loaded from YAML:
//
//	sample_rate: 48000
//	channels: 2
//	frames_per_period: 256
//	driver: portaudio
//	report_interval: 250ms
//
// # Drivers
//
// The ticker driver renders on a timer and discards the result, manual
// renders on demand, and portaudio and oto play through the default device
// when built with the matching build tag. See package driver.
package audhost
