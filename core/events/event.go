package events

import "unichain/core/types"

// Event represents a structured state change emitted by the ledger.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (e.g. indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while discarding
// all events. It is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Recorder buffers emitted events in order. It is not safe for concurrent use.
type Recorder struct {
	events []Event
}

// Emit implements the Emitter interface.
func (r *Recorder) Emit(e Event) {
	if e == nil {
		return
	}
	r.events = append(r.events, e)
}

// Events returns the buffered events.
func (r *Recorder) Events() []Event {
	return append([]Event(nil), r.events...)
}

// Drain returns the buffered events in their generic form and resets the buffer.
func (r *Recorder) Drain() []types.Event {
	out := make([]types.Event, 0, len(r.events))
	for _, e := range r.events {
		if conv, ok := e.(interface{ Event() *types.Event }); ok {
			if converted := conv.Event(); converted != nil {
				out = append(out, *converted)
			}
		}
	}
	r.events = nil
	return out
}
