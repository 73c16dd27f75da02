package streamparse

import "testing"

func TestStreamStoreAppendAndGet(t *testing.T) {
	s := NewStreamStore()
	s.Append(NewTextElement("a"))
	s.Append(NewTextElement("b"))

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Get(0).Text != "a" || s.Get(1).Text != "b" {
		t.Fatalf("Get(0)=%q Get(1)=%q, want a, b", s.Get(0).Text, s.Get(1).Text)
	}
}

func TestStreamStoreNotifiesInAppendOrder(t *testing.T) {
	s := NewStreamStore()
	var seen []string
	s.OnElementAdded(func(e StreamElement) { seen = append(seen, e.Text) })

	s.Append(NewTextElement("a"))
	s.Append(NewTextElement("b"))
	s.Append(NewTextElement("c"))

	want := []string{"a", "b", "c"}
	if len(seen) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestStreamStoreAllReturnsACopy(t *testing.T) {
	s := NewStreamStore()
	s.Append(NewTextElement("a"))

	got := s.All()
	got[0] = NewTextElement("mutated")

	if s.Get(0).Text != "a" {
		t.Fatalf("store element mutated via All() copy: got %q", s.Get(0).Text)
	}
}

func TestStreamStoreMultipleSubscribers(t *testing.T) {
	s := NewStreamStore()
	var a, b int
	s.OnElementAdded(func(StreamElement) { a++ })
	s.OnElementAdded(func(StreamElement) { b++ })

	s.Append(NewTextElement("x"))

	if a != 1 || b != 1 {
		t.Fatalf("a=%d b=%d, want both 1", a, b)
	}
}
