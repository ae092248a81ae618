package wavetable

import (
	"fmt"
	"math"
	"testing"
)

func circularDistance(a, b, n float32) float64 {
	d := math.Abs(float64(a - b))
	return math.Min(d, float64(n)-d)
}

func TestOscillatorIncrementFormula(t *testing.T) {
	tab := GenerateSine(DefaultLength)

	tests := []struct {
		freq       float32
		sampleRate float64
	}{
		{440, 48000},
		{261.6, 44100},
		{20, 96000},
		{12000, 48000},
		{0.5, 8000},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1fHz@%.0f", tt.freq, tt.sampleRate), func(t *testing.T) {
			o := NewOscillator(tab, tt.sampleRate)
			o.SetFrequency(tt.freq)
			want := float64(tt.freq) * DefaultLength / tt.sampleRate
			if math.Abs(float64(o.Increment())-want) > want*1e-6 {
				t.Fatalf("increment mismatch: got=%f want=%f", o.Increment(), want)
			}
		})
	}
}

func TestOscillatorPhaseIsPeriodic(t *testing.T) {
	tab := GenerateSine(DefaultLength)

	tests := []struct {
		freq       float32
		sampleRate float64
		calls      int
	}{
		{750, 48000, 64},  // increment 1
		{375, 48000, 128}, // increment 0.5
		{440, 44000, 100}, // increment 0.64
		{1500, 48000, 32}, // increment 2
		{6000, 48000, 8},  // increment 8
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.0fHz", tt.freq), func(t *testing.T) {
			o := NewOscillator(tab, tt.sampleRate)
			o.SetFrequency(tt.freq)
			start := o.Phase()
			for i := 0; i < tt.calls; i++ {
				o.Sample()
				if p := o.Phase(); p < 0 || p >= DefaultLength {
					t.Fatalf("phase left [0,%d) at call %d: %f", DefaultLength, i, p)
				}
			}
			if d := circularDistance(o.Phase(), start, DefaultLength); d > 1e-3 {
				t.Fatalf("phase did not return to start after one period: start=%f end=%f", start, o.Phase())
			}
		})
	}
}

func TestOscillatorExactAtIntegerPhase(t *testing.T) {
	tab := GenerateSine(DefaultLength)
	o := NewOscillator(tab, 48000)
	o.SetFrequency(750) // one table step per sample

	for i := 0; i < 3*DefaultLength; i++ {
		got := o.Sample()
		want := tab[i%DefaultLength]
		if got != want {
			t.Fatalf("sample %d: got=%f want table value %f", i, got, want)
		}
	}
}

func TestOscillatorInterpolatesAcrossTableEnd(t *testing.T) {
	tab := GenerateSine(DefaultLength)
	o := NewOscillator(tab, 48000)
	o.SetFrequency(375) // half a table step per sample

	var last float32
	for i := 0; i < 2*DefaultLength; i++ {
		last = o.Sample()
	}
	// The last call read phase 63.5, halfway between tab[63] and tab[0].
	want := tab[63] + 0.5*(tab[0]-tab[63])
	if math.Abs(float64(last-want)) > 1e-6 {
		t.Fatalf("wrap interpolation mismatch: got=%f want=%f", last, want)
	}
	if o.Phase() != 0 {
		t.Fatalf("expected phase to wrap to 0, got %f", o.Phase())
	}
}

func TestOscillatorPlayingState(t *testing.T) {
	o := NewOscillator(GenerateSine(DefaultLength), 48000)
	if o.IsPlaying() {
		t.Fatalf("new oscillator must be silent")
	}
	o.SetFrequency(440)
	if !o.IsPlaying() {
		t.Fatalf("expected playing after SetFrequency")
	}
	o.Stop()
	if o.IsPlaying() {
		t.Fatalf("expected stopped after Stop")
	}
	o.SetFrequency(220)
	if !o.IsPlaying() {
		t.Fatalf("expected playing after second SetFrequency")
	}
}

func TestOscillatorStopKeepsPhaseAndIncrement(t *testing.T) {
	o := NewOscillator(GenerateSine(DefaultLength), 48000)
	o.SetFrequency(440)
	for i := 0; i < 37; i++ {
		o.Sample()
	}
	phase, inc := o.Phase(), o.Increment()

	o.Stop()
	if got := o.Sample(); got != 0 {
		t.Fatalf("stopped oscillator must return 0, got %f", got)
	}
	if o.Phase() != phase || o.Increment() != inc {
		t.Fatalf("stop changed state: phase %f->%f inc %f->%f", phase, o.Phase(), inc, o.Increment())
	}
}

func TestOscillatorRetriggerIsPhaseContinuous(t *testing.T) {
	o := NewOscillator(GenerateSine(DefaultLength), 48000)
	o.SetFrequency(440)
	for i := 0; i < 10; i++ {
		o.Sample()
	}
	phase := o.Phase()

	o.SetFrequency(880)
	if o.Phase() != phase {
		t.Fatalf("SetFrequency reset phase: %f -> %f", phase, o.Phase())
	}
	o.Stop()
	o.SetFrequency(440)
	if o.Phase() != phase {
		t.Fatalf("retrigger reset phase: %f -> %f", phase, o.Phase())
	}
}

func TestOscillatorIgnoresInvalidInput(t *testing.T) {
	tab := GenerateSine(DefaultLength)

	for _, f := range []float32{0, -440, float32(math.NaN()), float32(math.Inf(1))} {
		o := NewOscillator(tab, 48000)
		o.SetFrequency(f)
		if o.IsPlaying() {
			t.Fatalf("frequency %v must be ignored", f)
		}
	}

	inert := []Oscillator{
		NewOscillator(nil, 48000),
		NewOscillator(tab, 0),
		NewOscillator(tab, -1),
		NewOscillator(tab, math.NaN()),
	}
	for i := range inert {
		inert[i].SetFrequency(440)
		if inert[i].IsPlaying() {
			t.Fatalf("inert oscillator %d started playing", i)
		}
		if got := inert[i].Sample(); got != 0 {
			t.Fatalf("inert oscillator %d produced %f", i, got)
		}
	}
}

func TestOscillatorProcessAccumulates(t *testing.T) {
	tab := GenerateSine(DefaultLength)
	a := NewOscillator(tab, 48000)
	b := NewOscillator(tab, 48000)
	a.SetFrequency(750)
	b.SetFrequency(750)

	buf := make([]float32, 16)
	for i := range buf {
		buf[i] = 1
	}
	a.Process(buf)
	for i := range buf {
		want := 1 + b.Sample()
		if buf[i] != want {
			t.Fatalf("sample %d: got=%f want=%f", i, buf[i], want)
		}
	}
}

func TestOscillatorLongRunStaysBounded(t *testing.T) {
	o := NewOscillator(GenerateSine(DefaultLength), 44100)
	o.SetFrequency(261.6)
	for i := 0; i < 44100*30; i++ {
		s := o.Sample()
		if s < -1 || s > 1 || !isFinite(s) {
			t.Fatalf("sample %d out of range: %f", i, s)
		}
	}
	if p := o.Phase(); p < 0 || p >= DefaultLength {
		t.Fatalf("phase out of range after long run: %f", p)
	}
}

func BenchmarkOscillatorSample(b *testing.B) {
	o := NewOscillator(GenerateSine(DefaultLength), 48000)
	o.SetFrequency(440)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		o.Sample()
	}
}
