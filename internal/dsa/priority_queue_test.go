package dsa

import "testing"

func TestMaxUniquePriorityQueueKeepsHighestScores(t *testing.T) {
	q := NewMaxUniquePriorityQueue(3)
	q.Push(1.0, "a", "a")
	q.Push(2.0, "b", "b")
	q.Push(3.0, "c", "c")
	q.Push(0.5, "d", "d") // below capacity's min (1.0), dropped
	q.Push(5.0, "e", "e") // evicts "a" (lowest, 1.0)

	if q.Len() != 3 {
		t.Fatalf("len = %d, want 3", q.Len())
	}
	got := map[string]bool{}
	for _, item := range q.IterInOrder() {
		got[item.Key] = true
	}
	want := map[string]bool{"b": true, "c": true, "e": true}
	for k := range want {
		if !got[k] {
			t.Errorf("expected %q to survive, got %v", k, got)
		}
	}
	if got["a"] || got["d"] {
		t.Errorf("expected a, d to be evicted/rejected, got %v", got)
	}
}

func TestMaxUniquePriorityQueueIgnoresDuplicateKey(t *testing.T) {
	q := NewMaxUniquePriorityQueue(5)
	q.Push(1.0, "x", "first")
	q.Push(99.0, "x", "second")
	if q.Len() != 1 {
		t.Fatalf("len = %d, want 1", q.Len())
	}
	item, ok := q.GetMax()
	if !ok || item.Value != "first" {
		t.Errorf("GetMax = %+v, want original first-pushed value retained", item)
	}
}

func TestMaxUniquePriorityQueueGetMaxGetMin(t *testing.T) {
	q := NewMaxUniquePriorityQueue(10)
	q.Push(3.0, "a", nil)
	q.Push(7.0, "b", nil)
	q.Push(1.0, "c", nil)

	max, _ := q.GetMax()
	if max.Key != "b" {
		t.Errorf("GetMax key = %q, want b", max.Key)
	}
	min, _ := q.GetMin()
	if min.Key != "c" {
		t.Errorf("GetMin key = %q, want c", min.Key)
	}
}

func TestMaxUniquePriorityQueuePopOrder(t *testing.T) {
	q := NewMaxUniquePriorityQueue(10)
	q.Push(3.0, "a", nil)
	q.Push(7.0, "b", nil)
	q.Push(1.0, "c", nil)

	item, ok := q.Pop()
	if !ok || item.Key != "c" {
		t.Fatalf("first pop = %+v, want c (lowest score)", item)
	}
	item, ok = q.Pop()
	if !ok || item.Key != "a" {
		t.Fatalf("second pop = %+v, want a", item)
	}
	if _, err := NewMaxUniquePriorityQueue(0).MustPop(); err == nil {
		t.Errorf("expected error popping empty/zero-capacity queue")
	}
}

func TestMaxUniquePriorityQueueEmpty(t *testing.T) {
	q := NewMaxUniquePriorityQueue(3)
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue returned ok=true")
	}
	if _, ok := q.GetMax(); ok {
		t.Error("GetMax on empty queue returned ok=true")
	}
}
