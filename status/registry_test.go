package status

import (
	"sync"
	"testing"
)

func TestCounterIsShared(t *testing.T) {
	r := NewRegistry()
	a := r.Counter("sessions.accepted")
	b := r.Counter("sessions.accepted")
	if a != b {
		t.Fatal("Expected the same counter for the same name")
	}
	a.Add(2)
	if got := b.Load(); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
}

func TestConcurrentCounters(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Counter("hits").Add(1)
			}
		}()
	}
	wg.Wait()

	if got := r.Counter("hits").Load(); got != 800 {
		t.Errorf("Expected 800, got %d", got)
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 counter, got %d", r.Len())
	}
}

func TestRangeSorted(t *testing.T) {
	r := NewRegistry()
	r.Counter("b").Add(2)
	r.Counter("a").Add(1)
	r.Counter("c")

	var names []string
	var values []int64
	r.Range(func(name string, value int64) {
		names = append(names, name)
		values = append(values, value)
	})

	want := []string{"a", "b", "c"}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, names)
			break
		}
	}
	if values[0] != 1 || values[1] != 2 || values[2] != 0 {
		t.Errorf("Expected values [1 2 0], got %v", values)
	}
}
