//go:build js && wasm

package cst

import "sync"

var allocOnce sync.Once

// ensureAllocator is the js&&wasm half of the build-tag-gated allocator pair;
// see alloc_other.go. Installation happens once per process, guarded by
// allocOnce.
func ensureAllocator() {
	allocOnce.Do(installSizePrefixedAllocator)
}

// installSizePrefixedAllocator is a no-op: the embedded wasm parser scenario
// a size-prefixed malloc/free/realloc/calloc hook set would serve is out of
// scope here, since this package only ever runs as a regular compiled Go
// binary. The js&&wasm build tag is kept so the pair mirrors esbuild's
// GOOS-specific file split, not because this target is actually exercised.
func installSizePrefixedAllocator() {}
