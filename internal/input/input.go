// Package input turns sampled button levels into discrete press events.
package input

import (
	"fmt"
	"sync"
	"time"
)

// Button identifies a physical key.
type Button int

const (
	Prev Button = iota
	Next
	Home
	Menu
	// Up, Down and Select exist on five-way boards and the simulators.
	Up
	Down
	Select
)

// Buttons lists every button in sampling order.
var Buttons = []Button{Prev, Next, Home, Menu, Up, Down, Select}

func (b Button) String() string {
	switch b {
	case Prev:
		return "prev"
	case Next:
		return "next"
	case Home:
		return "home"
	case Menu:
		return "menu"
	case Up:
		return "up"
	case Down:
		return "down"
	case Select:
		return "select"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// Kind is the type of a button event.
type Kind int

const (
	ButtonDown Kind = iota
	ButtonUp
	Click
	LongPress
	LongHold
)

func (k Kind) String() string {
	switch k {
	case ButtonDown:
		return "down"
	case ButtonUp:
		return "up"
	case Click:
		return "click"
	case LongPress:
		return "long-press"
	case LongHold:
		return "long-hold"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a discrete button event. Duration is set for LongPress and
// LongHold.
type Event struct {
	Kind     Kind
	Button   Button
	Duration time.Duration
}

func (e Event) String() string {
	if e.Duration > 0 {
		return fmt.Sprintf("%s %s (%s)", e.Button, e.Kind, e.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s %s", e.Button, e.Kind)
}

// Queue is a FIFO of events safe for one producer and one consumer.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// Push appends events in order.
func (q *Queue) Push(events ...Event) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	q.events = append(q.events, events...)
	q.mu.Unlock()
}

// Drain removes and returns every queued event in arrival order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
