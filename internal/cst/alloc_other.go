//go:build !(js && wasm)

package cst

// ensureAllocator is a no-op on targets whose default allocator is
// reliable. Only the js/wasm build (see alloc_js.go) needs the size-prefix
// allocator override.
func ensureAllocator() {}
