package input

import (
	"context"
	"time"
)

// DefaultPollInterval is how often the poller samples the buttons.
const DefaultPollInterval = 10 * time.Millisecond

// ButtonReader reports the current level of a button.
type ButtonReader interface {
	Pressed(b Button) bool
}

// Poller samples a ButtonReader on a fixed interval and pushes the
// detector's events onto a queue.
type Poller struct {
	Reader   ButtonReader
	Detector *Detector
	Queue    *Queue
	Interval time.Duration
	Now      func() time.Time
}

// NewPoller returns a poller sampling r every DefaultPollInterval.
func NewPoller(r ButtonReader, q *Queue, longPress time.Duration) *Poller {
	return &Poller{
		Reader:   r,
		Detector: NewDetector(longPress),
		Queue:    q,
		Interval: DefaultPollInterval,
		Now:      time.Now,
	}
}

// Step samples every button once.
func (p *Poller) Step() {
	now := p.Now()
	for _, b := range Buttons {
		p.Queue.Push(p.Detector.Sample(b, p.Reader.Pressed(b), now)...)
	}
}

// Run samples until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Step()
		}
	}
}
