package traversal

// frontier holds the people discovered but not yet expanded by a walk.
type frontier interface {
	push(name string)
	pop() string
	len() int
}

// stack is a LIFO frontier used for depth-first walks.
type stack struct {
	items []string
}

func (s *stack) push(name string) { s.items = append(s.items, name) }
func (s *stack) len() int         { return len(s.items) }

func (s *stack) pop() string {
	last := len(s.items) - 1
	name := s.items[last]
	s.items = s.items[:last]
	return name
}

// queue is a FIFO frontier used for breadth-first walks.
type queue struct {
	items []string
	head  int
}

func (q *queue) push(name string) { q.items = append(q.items, name) }
func (q *queue) len() int         { return len(q.items) - q.head }

func (q *queue) pop() string {
	name := q.items[q.head]
	q.items[q.head] = ""
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > 64 && q.head*2 >= len(q.items) {
		q.items = append([]string(nil), q.items[q.head:]...)
		q.head = 0
	}
	return name
}
