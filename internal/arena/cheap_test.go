//go:build cgo

package arena

func init() {
	extraAllocators["cheap"] = func(opts ...Option) Allocator { return NewCHeap(opts...) }
}
