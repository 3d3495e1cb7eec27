package wasm

// CompiledCount returns the number of memoized compiler modules.
func (r *Runtime) CompiledCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.compiled)
}
