// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper converts an interleaved source to a different channel count.
// Downmixing to mono averages all channels; mono is duplicated to every output
// channel; other layouts fold source channel c onto output channel c % out.
type ChannelMapper struct {
	src      Source
	channels int
	tmp      []float32
}

func NewChannelMapper(src Source, channels int) *ChannelMapper {
	return &ChannelMapper{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}
}

func (m *ChannelMapper) Format() StreamFormat {
	f := m.src.Format()
	f.Channels = m.channels
	f.Encoding = Float32Interleaved
	return f
}

func (m *ChannelMapper) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	in := m.src.Format().Channels
	if in == m.channels {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.channels
	needed := frames * in
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, max(needed, 8192))
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames = n / in

	switch {
	case m.channels == 1 && in == 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	case m.channels == 1:
		inv := float32(1.0) / float32(in)
		for f := range frames {
			sum := float32(0)
			base := f * in
			for c := range in {
				sum += m.tmp[base+c]
			}
			dst[f] = sum * inv
		}
	case in == 1:
		for f := range frames {
			v := m.tmp[f]
			base := f * m.channels
			for c := range m.channels {
				dst[base+c] = v
			}
		}
	default:
		clear(dst[:frames*m.channels])
		for c := range in {
			target := c % m.channels
			share := float32((in - target + m.channels - 1) / m.channels)
			for f := range frames {
				dst[f*m.channels+target] += m.tmp[f*in+c] / share
			}
		}
	}

	return frames * m.channels, err
}
