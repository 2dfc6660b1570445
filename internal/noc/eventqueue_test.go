package noc

import "testing"

func mkRouterSingle(ts int64, seq uint64, router int) *RouterSingleEvent {
	return &RouterSingleEvent{
		baseEvent: baseEvent{timestamp: ts, sequence: seq, kind: EventRouterSingle},
		RouterID:  router,
	}
}

func TestEventQueue_OrdersByTimestamp(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(mkRouterSingle(30, 1, 3))
	q.Schedule(mkRouterSingle(10, 2, 1))
	q.Schedule(mkRouterSingle(20, 3, 2))

	var order []int64
	for q.Len() > 0 {
		order = append(order, q.PopMin().Timestamp())
	}
	want := []int64{10, 20, 30}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("order[%d] = %d, want %d", i, order[i], w)
		}
	}
}

func TestEventQueue_TiesBreakByInsertionOrder(t *testing.T) {
	q := NewEventQueue()
	// Three events at the same timestamp, scheduled in a specific order.
	q.Schedule(mkRouterSingle(5, 1, 100))
	q.Schedule(mkRouterSingle(5, 2, 200))
	q.Schedule(mkRouterSingle(5, 3, 300))

	first := q.PopMin().(*RouterSingleEvent)
	second := q.PopMin().(*RouterSingleEvent)
	third := q.PopMin().(*RouterSingleEvent)

	if first.RouterID != 100 || second.RouterID != 200 || third.RouterID != 300 {
		t.Fatalf("FIFO tie-break violated: got %d, %d, %d", first.RouterID, second.RouterID, third.RouterID)
	}
}

func TestEventQueue_PeekDoesNotRemove(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(mkRouterSingle(1, 1, 0))
	if q.PeekMin() == nil {
		t.Fatal("PeekMin returned nil on non-empty queue")
	}
	if q.Len() != 1 {
		t.Fatalf("PeekMin mutated the queue, len = %d, want 1", q.Len())
	}
}

func TestEventQueue_EmptyReturnsNil(t *testing.T) {
	q := NewEventQueue()
	if q.PopMin() != nil {
		t.Error("PopMin on empty queue should return nil")
	}
	if q.PeekMin() != nil {
		t.Error("PeekMin on empty queue should return nil")
	}
}
