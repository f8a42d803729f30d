// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/internal/audiotest"
)

// Example_load shows how a decoded stream is brought into the format of a node
// before playback starts.
func Example_load() {
	// Half a second of a 440Hz tone at 22.05kHz mono
	source := audiotest.NewSineSource(22050, 1, 11025, 440.0)

	buf, err := audio.Load(source, audio.StandardFormat(44100, 2), 0)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Format: %s\n", buf.Format())
	fmt.Printf("Frames: %d\n", buf.Frames())
	// Output:
	// Format: 44100Hz 2ch float32-noninterleaved
	// Frames: 22050
}

// Example_buffer shows the planar layout used inside the graph.
func Example_buffer() {
	buf, _ := audio.NewBuffer(audio.StandardFormat(48000, 2), 4)
	buf.Deinterleave([]float32{0.1, -0.1, 0.2, -0.2})

	fmt.Println("left:", buf.Channel(0))
	fmt.Println("right:", buf.Channel(1))
	// Output:
	// left: [0.1 0.2]
	// right: [-0.1 -0.2]
}

// Example_channelMapper demonstrates converting stereo to mono.
func Example_channelMapper() {
	source := audiotest.NewSineSource(16000, 2, 16000, 440.0)
	mono := audio.NewChannelMapper(source, 1)

	fmt.Printf("Input channels: %d\n", source.Format().Channels)
	fmt.Printf("Output channels: %d\n", mono.Format().Channels)
	// Output:
	// Input channels: 2
	// Output channels: 1
}
