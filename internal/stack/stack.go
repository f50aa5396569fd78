package stack

// Stack is a slice-backed LIFO. The zero value is an empty stack.
type Stack[T any] []T

func (s *Stack[T]) Push(v T) {
	*s = append(*s, v)
}

// Pop removes the top n items (one if n is not given). Once the backing
// array's capacity exceeds 20 entries and twice the live length it is
// reallocated, so a deeply nested burst does not pin memory for the
// rest of the stream.
func (s *Stack[T]) Pop(n ...int) {
	nn := 1
	if len(n) > 0 {
		nn = n[0]
	}
	if nn <= 0 {
		return
	}

	for s.Len() > 0 {
		s.PopLast()
		nn--
		if nn <= 0 {
			break
		}
	}

	if c := s.Cap(); c > 20 && c > s.Len()*2 {
		s.Realloc()
	}
}

func (s *Stack[T]) PopLast() {
	if s.Len() <= 0 {
		return
	}
	*s = (*s)[:s.Len()-1]
}

func (s *Stack[T]) Realloc() {
	*s = append(Stack[T](nil), *s...)
}

// SetTop replaces the top item in place. No-op on an empty stack.
func (s *Stack[T]) SetTop(v T) {
	if l := s.Len(); l > 0 {
		(*s)[l-1] = v
	}
}

// Top returns the top item, or the zero value and false when empty.
func (s Stack[T]) Top() (T, bool) {
	if l := s.Len(); l > 0 {
		return s[l-1], true
	}
	var zero T
	return zero, false
}

// Peek returns up to n items from the top, topmost last.
func (s Stack[T]) Peek(n int) []T {
	if l := s.Len(); l > n {
		return s[l-n : l]
	}
	return s
}

func (s Stack[T]) Len() int {
	return len(s)
}

func (s Stack[T]) Cap() int {
	return cap(s)
}
