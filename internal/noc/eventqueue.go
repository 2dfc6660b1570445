package noc

import "container/heap"

// EventQueue is a min-timestamp priority queue over Event, stable for equal
// timestamps (spec §3, §5). It is single-threaded and unlocked, matching
// the cooperative, non-preemptive scheduling model of spec §5.
//
// Grounded on the teacher's container/heap-based EventHeap
// (sim/cluster/event_heap.go); unlike that heap, ties here break purely on
// insertion Sequence, since spec §3 names no secondary type-priority tier.
type EventQueue struct {
	events []Event
}

// NewEventQueue returns an empty, ready-to-use queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make([]Event, 0, 64)}
	heap.Init(q)
	return q
}

func (q *EventQueue) Len() int { return len(q.events) }

func (q *EventQueue) Less(i, j int) bool {
	a, b := q.events[i], q.events[j]
	if a.Timestamp() != b.Timestamp() {
		return a.Timestamp() < b.Timestamp()
	}
	return a.Sequence() < b.Sequence()
}

func (q *EventQueue) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
}

func (q *EventQueue) Push(x interface{}) {
	q.events = append(q.events, x.(Event))
}

func (q *EventQueue) Pop() interface{} {
	old := q.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.events = old[:n-1]
	return item
}

// Schedule inserts e into the queue.
func (q *EventQueue) Schedule(e Event) {
	heap.Push(q, e)
}

// PopMin removes and returns the minimum event, or nil if empty.
func (q *EventQueue) PopMin() Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(Event)
}

// PeekMin returns the minimum event without removing it, or nil if empty.
func (q *EventQueue) PeekMin() Event {
	if q.Len() == 0 {
		return nil
	}
	return q.events[0]
}
