//go:build js && wasm

package main

import (
	"log"
	"os"
	"syscall/js"
	"unsafe"

	"github.com/cwbudde/algo-keys/engine"
	"github.com/cwbudde/algo-keys/keyboard"
)

const maxBlockFrames = 128

var (
	controller   *keyboard.Controller
	outputBuffer []float32
)

func main() {
	// Keep program running
	c := make(chan struct{})

	js.Global().Set("keysMount", js.FuncOf(keysMount))
	js.Global().Set("keysUnmount", js.FuncOf(keysUnmount))
	js.Global().Set("keysTrigger", js.FuncOf(keysTrigger))
	js.Global().Set("keysActiveKey", js.FuncOf(keysActiveKey))
	js.Global().Set("keysProcessBlock", js.FuncOf(keysProcessBlock))
	js.Global().Set("keysGetMemoryBuffer", js.FuncOf(keysGetMemoryBuffer))

	println("WASM keyboard module loaded")
	<-c
}

// keysMount(sampleRate, onChange?) mounts the keyboard. onChange receives the
// highlighted note id, or null when the highlight clears.
func keysMount(this js.Value, args []js.Value) interface{} {
	if controller != nil {
		_ = controller.Unmount()
	}
	sampleRate := 48000
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		sampleRate = args[0].Int()
	}
	var onChange func(keyboard.State)
	if len(args) > 1 && args[1].Type() == js.TypeFunction {
		cb := args[1]
		onChange = func(s keyboard.State) {
			if s.Idle() {
				cb.Invoke(js.Null())
				return
			}
			cb.Invoke(s.ActiveID)
		}
	}

	controller = keyboard.NewController(keyboard.Options{
		Open: func() (*engine.Handle, error) {
			return engine.Open(engine.Options{SampleRate: sampleRate})
		},
		Logger:   log.New(os.Stderr, "keys-wasm: ", 0),
		OnChange: onChange,
	})
	if err := controller.Mount(); err != nil {
		return err.Error()
	}
	outputBuffer = make([]float32, maxBlockFrames*2)
	println("Keyboard mounted at", sampleRate, "Hz")
	return nil
}

func keysUnmount(this js.Value, args []js.Value) interface{} {
	if controller == nil {
		return nil
	}
	err := controller.Unmount()
	controller = nil
	if err != nil {
		return err.Error()
	}
	return nil
}

// keysTrigger(noteId) returns an error message for unknown ids.
func keysTrigger(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || controller == nil {
		return nil
	}
	if err := controller.Trigger(args[0].String()); err != nil {
		return err.Error()
	}
	return nil
}

func keysActiveKey(this js.Value, args []js.Value) interface{} {
	if controller == nil {
		return nil
	}
	id, ok := controller.Active()
	if !ok {
		return nil
	}
	return id
}

func keysProcessBlock(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || controller == nil {
		return 0
	}
	numFrames := min(args[0].Int(), maxBlockFrames)

	output := controller.Handle().Render(numFrames)
	clear(outputBuffer)
	copy(outputBuffer, output)

	// Return pointer to buffer in WASM linear memory
	ptr := &outputBuffer[0]
	return js.ValueOf(uintptr(unsafe.Pointer(ptr)))
}

func keysGetMemoryBuffer(this js.Value, args []js.Value) interface{} {
	return js.Global().Get("Go").Get("_inst").Get("exports").Get("mem").Get("buffer")
}
