// SPDX-License-Identifier: EPL-2.0

// Package unit holds the processing nodes bundled with the host.
//
//   - Mixer sums any number of inputs, growing on demand
//   - Player plays preloaded files or buffers
//   - Tone generates a sine test signal
//   - Recorder taps a signal into memory and writes it as WAV
//   - Output is the sink the device reads from
//   - Passthrough copies two inputs to two outputs at a fixed 44.1 kHz stereo
//
// Every unit can be constructed directly or through a node.Registry after
// Register has added the bundled descriptions:
//
//	reg := node.NewRegistry()
//	_ = unit.Register(reg, unit.Options{Format: audio.StandardFormat(48000, 2)})
//	mixer, err := reg.InstantiateSync(ctx, unit.MixerDescription)
//
// Parameters that can change while the engine runs (volumes, tone frequency,
// play state) are stored atomically and read once per period.
package unit
