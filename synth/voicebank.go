package synth

import "github.com/cwbudde/algo-wavetable/wavetable"

// voiceBank owns one oscillator per note identity. The slot index is the
// note number; there is no voice allocation or stealing.
//
// active lists the playing slots in ascending order so rendering touches
// only sounding voices while summing them in identity order.
type voiceBank struct {
	voices    [NumVoices]wavetable.Oscillator
	active    [NumVoices]uint8
	numActive int
}

// initialize rebuilds every voice silent around the shared table.
func (b *voiceBank) initialize(table wavetable.Table, sampleRate float64) {
	for i := range b.voices {
		b.voices[i] = wavetable.NewOscillator(table, sampleRate)
	}
	b.numActive = 0
}

func (b *voiceBank) noteOn(note int, frequency float32) {
	if note < 0 || note >= NumVoices {
		return
	}
	v := &b.voices[note]
	wasPlaying := v.IsPlaying()
	v.SetFrequency(frequency)
	if !wasPlaying && v.IsPlaying() {
		b.insertActive(uint8(note))
	}
}

func (b *voiceBank) noteOff(note int) {
	if note < 0 || note >= NumVoices {
		return
	}
	v := &b.voices[note]
	if !v.IsPlaying() {
		return
	}
	v.Stop()
	b.removeActive(uint8(note))
}

func (b *voiceBank) allNotesOff() {
	for i := range b.voices {
		b.voices[i].Stop()
	}
	b.numActive = 0
}

func (b *voiceBank) insertActive(note uint8) {
	pos := b.numActive
	for pos > 0 && b.active[pos-1] > note {
		b.active[pos] = b.active[pos-1]
		pos--
	}
	b.active[pos] = note
	b.numActive++
}

func (b *voiceBank) removeActive(note uint8) {
	for i := 0; i < b.numActive; i++ {
		if b.active[i] != note {
			continue
		}
		copy(b.active[i:b.numActive-1], b.active[i+1:b.numActive])
		b.numActive--
		return
	}
}

// render adds every active voice into out[begin:end).
func (b *voiceBank) render(out []float32, begin, end int) {
	if begin >= end {
		return
	}
	seg := out[begin:end]
	for i := 0; i < b.numActive; i++ {
		b.voices[b.active[i]].Process(seg)
	}
}
