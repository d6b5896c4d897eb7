package model

import "time"

// EventLevel distinguishes informational events from persisted writes.
type EventLevel int

const (
	EventDebug EventLevel = iota
	EventWrite
)

func (l EventLevel) String() string {
	if l == EventWrite {
		return "write"
	}
	return "debug"
}

// EventOp names the operation behind an event.
type EventOp string

const (
	OpSet     EventOp = "set"
	OpSave    EventOp = "save"
	OpRewrite EventOp = "rewrite"
	OpDelete  EventOp = "delete"
)

// Event describes something that happened to an object.
type Event struct {
	Level   EventLevel
	Op      EventOp
	Object  *Object
	Message string
	Time    time.Time

	// Field, Old and New are set for OpSet and OpSave.
	Field string
	Old   string
	New   string
}

// Observer receives model events. Observers are registered on a Registry
// before objects are loaded and dropped by Registry.Close.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }
