package bond

// slot holds the current strategy and at most one retired one.
type slot[T any] struct {
	current  T
	previous T
	retained bool
}

func (s *slot[T]) replace(v T) {
	s.previous = s.current
	s.retained = true
	s.current = v
}

// restore brings back the retired strategy and discards the one it
// replaced. It fails when nothing is retained.
func (s *slot[T]) restore() bool {
	if !s.retained {
		return false
	}
	var zero T
	s.current = s.previous
	s.previous = zero
	s.retained = false
	return true
}
