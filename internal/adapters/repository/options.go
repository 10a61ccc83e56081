package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity preallocates room for n events.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithStrictOrder controls whether ids must be exactly previous+1.
// When false (default) any strictly increasing id is accepted.
func WithStrictOrder(strict bool) Option {
	return func(s *MemoryStore) {
		s.strict = strict
	}
}
