package feed

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithBufferSize sets how many updates a subscriber may lag behind before
// new ones are dropped for it.
func WithBufferSize(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.bufferSize = size
		}
	}
}
