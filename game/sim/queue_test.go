package sim

import "testing"

func TestDirectionQueuePush(t *testing.T) {
	tests := []struct {
		name     string
		active   Direction
		pushes   []Direction
		expected []Direction
	}{
		{"rejects opposite of active", Right, []Direction{Left}, nil},
		{"rejects same as active", Right, []Direction{Right}, nil},
		{"accepts perpendicular", Right, []Direction{Up}, []Direction{Up}},
		{"rejects repeat of last queued", Right, []Direction{Up, Up}, []Direction{Up}},
		{"rejects opposite of last queued", Right, []Direction{Up, Down}, []Direction{Up}},
		{"chains turns", Right, []Direction{Up, Left, Down}, []Direction{Up, Left, Down}},
		{"drops overflow", Right, []Direction{Up, Left, Down, Right}, []Direction{Up, Left, Down}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q DirectionQueue
			for _, d := range tt.pushes {
				q.Push(d, tt.active)
			}

			got := q.Pending()
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
				}
			}
			if q.Len() > QueueCapacity {
				t.Errorf("Queue exceeded capacity: %d", q.Len())
			}
		})
	}
}

func TestDirectionQueuePopIsFIFO(t *testing.T) {
	var q DirectionQueue
	q.Push(Up, Right)
	q.Push(Left, Right)

	first, ok := q.Pop()
	if !ok || first != Up {
		t.Errorf("Expected Up, got %v (%v)", first, ok)
	}
	second, ok := q.Pop()
	if !ok || second != Left {
		t.Errorf("Expected Left, got %v (%v)", second, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Expected empty queue")
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		parsed, err := ParseDirection(d.String())
		if err != nil || parsed != d {
			t.Errorf("Expected %v, got %v (%v)", d, parsed, err)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("Expected double opposite of %v to be itself", d)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("Expected invalid direction to fail")
	}
}
