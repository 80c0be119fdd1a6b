package core

import "testing"

func TestObserverFunc(t *testing.T) {
	var got Event
	var o Observer = ObserverFunc(func(e Event) { got = e })

	o.Observe(Event{Type: EventPingLeft, Value: 42})

	if got.Type != EventPingLeft || got.Value != 42 {
		t.Errorf("got %+v, want ping.left 42", got)
	}
}
