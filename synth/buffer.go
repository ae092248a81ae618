package synth

import "github.com/go-audio/audio"

// Buffer is the multi-channel block the engine renders into. The engine only
// holds it for the duration of one ProcessBlock call.
type Buffer interface {
	NumChannels() int
	NumSamples() int
	// Channel returns the writable samples of channel ch.
	Channel(ch int) []float32
}

// ChannelBuffer is a planar Buffer with one slice per channel.
type ChannelBuffer struct {
	channels [][]float32
	samples  int
}

// NewChannelBuffer allocates a silent buffer.
func NewChannelBuffer(numChannels, numSamples int) *ChannelBuffer {
	if numChannels < 0 {
		numChannels = 0
	}
	if numSamples < 0 {
		numSamples = 0
	}
	b := &ChannelBuffer{
		channels: make([][]float32, numChannels),
		samples:  numSamples,
	}
	for i := range b.channels {
		b.channels[i] = make([]float32, numSamples)
	}
	return b
}

// NumChannels returns the number of channels.
func (b *ChannelBuffer) NumChannels() int { return len(b.channels) }

// NumSamples returns the current block length.
func (b *ChannelBuffer) NumSamples() int { return b.samples }

// Channel returns channel ch trimmed to the block length, or nil when ch is
// out of range.
func (b *ChannelBuffer) Channel(ch int) []float32 {
	if ch < 0 || ch >= len(b.channels) {
		return nil
	}
	return b.channels[ch][:b.samples]
}

// SetNumSamples changes the block length. Shrinking and growing back up to
// the allocated capacity does not allocate.
func (b *ChannelBuffer) SetNumSamples(n int) {
	if n < 0 {
		n = 0
	}
	for i, ch := range b.channels {
		if cap(ch) < n {
			grown := make([]float32, n)
			copy(grown, ch)
			b.channels[i] = grown
			continue
		}
		b.channels[i] = ch[:n]
	}
	b.samples = n
}

// Clear silences every channel.
func (b *ChannelBuffer) Clear() {
	for _, ch := range b.channels {
		clear(ch[:b.samples])
	}
}

// Interleave appends the frames of b to dst in channel-interleaved order.
func (b *ChannelBuffer) Interleave(dst []float32) []float32 {
	for i := 0; i < b.samples; i++ {
		for _, ch := range b.channels {
			dst = append(dst, ch[i])
		}
	}
	return dst
}

// Float32Buffer returns an interleaved copy of b for encoders.
func (b *ChannelBuffer) Float32Buffer(sampleRate int, bitDepth int) *audio.Float32Buffer {
	return &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: len(b.channels),
		},
		Data:           b.Interleave(make([]float32, 0, b.samples*len(b.channels))),
		SourceBitDepth: bitDepth,
	}
}
