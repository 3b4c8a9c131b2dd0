package input

import "time"

// DefaultLongPress is the hold time that turns a click into a long press.
const DefaultLongPress = time.Second

type buttonState struct {
	pressed   bool
	since     time.Time
	holdFired bool
}

// Detector turns level samples into edge events. A release shorter than
// the threshold is a Click, otherwise a LongPress. While a button stays
// down past the threshold a single LongHold is emitted.
type Detector struct {
	threshold time.Duration
	states    map[Button]*buttonState
}

// NewDetector returns a detector with the given long-press threshold.
func NewDetector(threshold time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultLongPress
	}
	return &Detector{threshold: threshold, states: make(map[Button]*buttonState)}
}

// Sample records the level of b at now and returns the resulting events.
func (d *Detector) Sample(b Button, pressed bool, now time.Time) []Event {
	st, ok := d.states[b]
	if !ok {
		st = &buttonState{}
		d.states[b] = st
	}

	switch {
	case pressed && !st.pressed:
		st.pressed, st.since, st.holdFired = true, now, false
		return []Event{{Kind: ButtonDown, Button: b}}

	case !pressed && st.pressed:
		st.pressed = false
		held := now.Sub(st.since)
		evs := []Event{{Kind: ButtonUp, Button: b}}
		if held < d.threshold {
			return append(evs, Event{Kind: Click, Button: b})
		}
		return append(evs, Event{Kind: LongPress, Button: b, Duration: held})

	case pressed && !st.holdFired:
		if held := now.Sub(st.since); held >= d.threshold {
			st.holdFired = true
			return []Event{{Kind: LongHold, Button: b, Duration: held}}
		}
	}
	return nil
}
