//go:build js && wasm

package main

import (
	"syscall/js"
	"unsafe"

	"github.com/cwbudde/algo-wavetable/synth"
)

const (
	maxBlock   = 128
	maxPending = 256
)

var (
	globalSynth  *synth.Synth
	block        *synth.ChannelBuffer
	outputBuffer []float32
	pending      []synth.NoteEvent
)

func main() {
	// Keep program running
	c := make(chan struct{})

	// Export functions to JavaScript
	js.Global().Set("wasmInit", js.FuncOf(wasmInit))
	js.Global().Set("wasmNoteOn", js.FuncOf(wasmNoteOn))
	js.Global().Set("wasmNoteOff", js.FuncOf(wasmNoteOff))
	js.Global().Set("wasmAllNotesOff", js.FuncOf(wasmAllNotesOff))
	js.Global().Set("wasmProcessBlock", js.FuncOf(wasmProcessBlock))
	js.Global().Set("wasmGetMemoryBuffer", js.FuncOf(wasmGetMemoryBuffer))

	println("WASM wavetable module loaded")
	<-c
}

// wasmInit(sampleRate, [referencePitch])
func wasmInit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	sampleRate := args[0].Float()

	params := synth.NewDefaultParams()
	if len(args) > 1 && args[1].Float() > 0 {
		params.ReferencePitch = float32(args[1].Float())
	}
	globalSynth = synth.NewSynth(params)
	globalSynth.Prepare(sampleRate)

	// Stereo output, 128 frames per worklet quantum.
	block = synth.NewChannelBuffer(2, maxBlock)
	outputBuffer = make([]float32, 0, maxBlock*2)
	pending = make([]synth.NoteEvent, 0, maxPending)

	println("Wavetable synth initialized at", int(sampleRate), "Hz")
	return nil
}

// queue stores an event for the next wasmProcessBlock call. The optional
// offset argument is the sample position inside that block.
func queue(ev synth.NoteEvent, args []js.Value, offsetArg int) {
	if globalSynth == nil || len(pending) == cap(pending) {
		return
	}
	if len(args) > offsetArg {
		ev.Timestamp = args[offsetArg].Int()
	}
	pending = append(pending, ev)
}

// wasmNoteOn(note, [offset])
func wasmNoteOn(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	queue(synth.NewNoteOn(args[0].Int(), 0), args, 1)
	return nil
}

// wasmNoteOff(note, [offset])
func wasmNoteOff(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	queue(synth.NewNoteOff(args[0].Int(), 0), args, 1)
	return nil
}

// wasmAllNotesOff([offset])
func wasmAllNotesOff(this js.Value, args []js.Value) interface{} {
	queue(synth.NewAllNotesOff(0), args, 0)
	return nil
}

func wasmProcessBlock(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || globalSynth == nil {
		return 0
	}

	numFrames := args[0].Int()
	if numFrames > maxBlock {
		numFrames = maxBlock
	}
	if numFrames < 1 {
		return 0
	}

	block.SetNumSamples(numFrames)
	block.Clear()
	globalSynth.ProcessBlock(block, pending)
	pending = pending[:0]

	outputBuffer = block.Interleave(outputBuffer[:0])

	// Return pointer to buffer in WASM linear memory
	ptr := &outputBuffer[0]
	return js.ValueOf(uintptr(unsafe.Pointer(ptr)))
}

func wasmGetMemoryBuffer(this js.Value, args []js.Value) interface{} {
	// Return WASM memory buffer for access from JS
	return js.Global().Get("Go").Get("_inst").Get("exports").Get("mem").Get("buffer")
}
