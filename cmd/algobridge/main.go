// Command algobridge builds the C shared library:
//
//	go build -buildmode=c-shared -o libalgobridge.so ./cmd/algobridge
//
// The generated header declares:
//
//	uintptr_t engine_create(void);
//	void      engine_destroy(uintptr_t engine);
//	int       engine_process(uintptr_t engine, const char* input, size_t input_len,
//	                         char** output, size_t* output_len);
//	void*     memory_alloc(size_t size);
//	void      memory_free(void* ptr);
//	void      simd_process_f32(float* input, float* output, size_t count);
//	void      simd_process_f64(double* input, double* output, size_t count);
//
// engine_process returns 0 on success, -1 for invalid arguments (including
// destroyed handles), -2 when the output block cannot be allocated and -3
// for any internal fault. On success *output holds output_len bytes plus a
// terminating NUL; release it with memory_free.
//
// If ALGOBRIDGE_CONFIG names an HCL file it is read once, on the first call.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"
)

//export engine_create
func engine_create() C.uintptr_t {
	return C.uintptr_t(create())
}

//export engine_destroy
func engine_destroy(engine C.uintptr_t) {
	destroy(uintptr(engine))
}

//export engine_process
func engine_process(engine C.uintptr_t, input *C.char, inputLen C.size_t, output **C.char, outputLen *C.size_t) C.int {
	var out unsafe.Pointer
	var n uint64

	var outP *unsafe.Pointer
	var nP *uint64
	if output != nil {
		outP = &out
	}
	if outputLen != nil {
		nP = &n
	}

	status := process(uintptr(engine), unsafe.Pointer(input), uint64(inputLen), outP, nP)
	if status == 0 {
		*output = (*C.char)(out)
		*outputLen = C.size_t(n)
	}
	return C.int(status)
}

//export memory_alloc
func memory_alloc(size C.size_t) unsafe.Pointer {
	return allocate(uint64(size))
}

//export memory_free
func memory_free(ptr unsafe.Pointer) {
	release(ptr)
}

//export simd_process_f32
func simd_process_f32(input *C.float, output *C.float, count C.size_t) {
	transformF32(unsafe.Pointer(input), unsafe.Pointer(output), uint64(count))
}

//export simd_process_f64
func simd_process_f64(input *C.double, output *C.double, count C.size_t) {
	transformF64(unsafe.Pointer(input), unsafe.Pointer(output), uint64(count))
}

func main() {}
