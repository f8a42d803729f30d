// SPDX-License-Identifier: EPL-2.0

// Package audio provides the stream types shared by every part of the host.
//
// This package contains:
//   - StreamFormat, the sample rate, channel count and encoding of a bus
//   - Buffer, fixed-capacity planar sample storage used by the render path
//   - Source and Decoder, the pull-based file side of the host
//   - Registry for decoder registration by file extension
//   - Resampler and ChannelMapper for bringing a Source to a node's format
//   - Load, which runs that pipeline ahead of playback
//
// # Stream Formats
//
// Graph buses carry 32-bit float samples in [-1.0, 1.0]:
//
//	f := audio.StandardFormat(44100, 2) // non-interleaved stereo
//	if err := f.Validate(); err != nil {
//	    // ErrFormatUnsupported
//	}
//
// Int16Interleaved only exists at device and file boundaries.
//
// # Buffers
//
// A Buffer is allocated once, when a node acquires its render resources, and is
// then only read and written. Channel returns the live samples of one channel;
// Interleave and Deinterleave convert to and from device layouts:
//
//	buf, _ := audio.NewBuffer(audio.StandardFormat(48000, 2), 512)
//	buf.Deinterleave(deviceSamples)
//	left := buf.Channel(0)
//
// # Bringing Files Into The Graph
//
// Decoded files rarely match the graph format. Load resamples and re-maps the
// channels up front so playback never does format work while rendering:
//
//	src, _ := registry.DecodeFile("loop.ogg", file)
//	buf, err := audio.Load(src, audio.StandardFormat(44100, 2), 0)
//
// # Error Handling
//
// Sources return io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
//
// Format problems are reported with ErrFormatUnsupported, wrapped with context.
package audio
