package table

// Chunks splits items into consecutive chunks of exactly size elements,
// padding the last one with zero values. No items yields a single chunk of
// zero values, so every group produces at least one row. size must be
// positive.
func Chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic("table: chunk size must be positive")
	}

	n := (len(items) + size - 1) / size
	if n == 0 {
		n = 1
	}

	out := make([][]T, n)
	for i := range out {
		chunk := make([]T, size)
		lo := i * size
		hi := min(lo+size, len(items))
		if lo < hi {
			copy(chunk, items[lo:hi])
		}
		out[i] = chunk
	}
	return out
}
