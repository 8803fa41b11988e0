//go:build js && wasm

// Command wasm exposes the bridge and kernels to JavaScript as the global
// AlgoBridge object:
//
//	const h = AlgoBridge.create();               // opaque string handle, "0" on failure
//	const r = AlgoBridge.process(h, "hi");       // {status: 0, output: Uint8Array}
//	AlgoBridge.destroy(h);
//	AlgoBridge.transformF32(new Float32Array([1, 2, 3]));
//	AlgoBridge.kernel();                         // {name, features}
package main

import (
	"fmt"
	"strconv"
	"syscall/js"

	"github.com/cwbudde/algo-bridge/bridge"
	"github.com/cwbudde/algo-bridge/internal/arena"
	"github.com/cwbudde/algo-bridge/internal/cpu"
	"github.com/cwbudde/algo-bridge/internal/handle"
	"github.com/cwbudde/algo-bridge/kernel"
)

var (
	b     *bridge.Bridge
	funcs []js.Func
)

func main() {
	b = bridge.New(bridge.WithAllocator(arena.NewHeap()))

	api := js.Global().Get("Object").New()
	api.Set("create", export(func(args []js.Value) any {
		return toJSHandle(b.Create())
	}))

	api.Set("destroy", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Null()
		}
		if h, ok := fromJSHandle(args[0]); ok {
			b.Destroy(h)
		}
		return js.Null()
	}))

	api.Set("process", export(func(args []js.Value) any {
		return process(args)
	}))

	api.Set("transformF32", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		input := args[0]
		src := make([]float32, input.Length())
		for i := range src {
			src[i] = float32(input.Index(i).Float())
		}
		dst := kernel.ApplyF32(src)
		arr := js.Global().Get("Float32Array").New(len(dst))
		for i := range dst {
			arr.SetIndex(i, dst[i])
		}
		return arr
	}))

	api.Set("transformF64", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Global().Get("Float64Array").New(0)
		}
		input := args[0]
		src := make([]float64, input.Length())
		for i := range src {
			src[i] = input.Index(i).Float()
		}
		dst := kernel.ApplyF64(src)
		arr := js.Global().Get("Float64Array").New(len(dst))
		for i := range dst {
			arr.SetIndex(i, dst[i])
		}
		return arr
	}))

	api.Set("kernel", export(func(args []js.Value) any {
		info := js.Global().Get("Object").New()
		info.Set("name", kernel.Selected().Name)
		info.Set("features", cpu.DetectFeatures().String())
		return info
	}))

	js.Global().Set("AlgoBridge", api)
	select {}
}

// Handles can use all 64 bits, more than a JS number holds exactly, so they
// cross as decimal strings.
func toJSHandle(h handle.Handle) string {
	return strconv.FormatUint(uint64(h), 10)
}

func fromJSHandle(v js.Value) (handle.Handle, bool) {
	if v.Type() != js.TypeString {
		return handle.Nil, false
	}
	n, err := strconv.ParseUint(v.String(), 10, 64)
	if err != nil {
		return handle.Nil, false
	}
	return handle.Handle(n), true
}

// process implements AlgoBridge.process(h, input). Anything other than a
// live handle and a string or Uint8Array input yields status -1.
func process(args []js.Value) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("status", int(bridge.StatusInvalidArgument))
	if len(args) < 2 {
		return result
	}
	h, ok := fromJSHandle(args[0])
	if !ok {
		return result
	}
	input, ok := inputBytes(args[1])
	if !ok {
		return result
	}

	out, err := b.Call(h, input)
	result.Set("status", int(bridge.StatusOf(err)))
	if err != nil {
		result.Set("error", err.Error())
		return result
	}
	arr := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(arr, out)
	result.Set("output", arr)
	return result
}

// inputBytes accepts a string or a Uint8Array/Uint8ClampedArray.
func inputBytes(v js.Value) ([]byte, bool) {
	switch v.Type() {
	case js.TypeString:
		return []byte(v.String()), true
	case js.TypeObject:
		if !v.InstanceOf(js.Global().Get("Uint8Array")) &&
			!v.InstanceOf(js.Global().Get("Uint8ClampedArray")) {
			return nil, false
		}
		buf := make([]byte, v.Get("length").Int())
		js.CopyBytesToGo(buf, v)
		return buf, true
	default:
		return nil, false
	}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) (ret any) {
		defer func() {
			if r := recover(); r != nil {
				ret = js.Global().Get("Error").New(fmt.Sprint(r))
			}
		}()
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
