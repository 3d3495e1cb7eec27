package cas

// MemoryLen exposes the number of entries held by the memory tier.
func (s *Store) MemoryLen() int {
	return s.memory.len()
}
