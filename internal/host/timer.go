package host

import (
	"context"
	"sync"
	"time"

	"smallbasic/pkg/libraries"
	"smallbasic/pkg/value"
)

// Timer raises Timer.Tick every Interval milliseconds while it is not
// paused. Ticks are dropped while the event queue is full.
type Timer struct {
	mu       sync.Mutex
	interval time.Duration
	paused   bool

	changed chan struct{}
	events  chan<- Event
}

func newTimer(events chan<- Event) *Timer {
	return &Timer{changed: make(chan struct{}, 1), events: events}
}

// Active reports whether the timer will tick
func (t *Timer) Active() bool {
	_, active := t.state()
	return active
}

func (t *Timer) state() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.interval, t.interval > 0 && !t.paused
}

// SetInterval changes the period and restarts a paused timer
func (t *Timer) SetInterval(interval time.Duration) {
	t.mu.Lock()
	t.interval = interval
	t.paused = false
	t.mu.Unlock()

	t.notify()
}

func (t *Timer) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.interval
}

func (t *Timer) Pause() {
	t.mu.Lock()
	t.paused = true
	t.mu.Unlock()

	t.notify()
}

func (t *Timer) Resume() {
	t.mu.Lock()
	t.paused = false
	t.mu.Unlock()

	t.notify()
}

func (t *Timer) notify() {
	select {
	case t.changed <- struct{}{}:
	default:
	}
}

// Run ticks until ctx is done, following interval and pause changes
func (t *Timer) Run(ctx context.Context) error {
	for {
		interval, active := t.state()
		if !active {
			select {
			case <-ctx.Done():
				return nil
			case <-t.changed:
				continue
			}
		}

		if t.tickUntilChanged(ctx, interval) {
			return nil
		}
	}
}

// tickUntilChanged reports whether ctx is done
func (t *Timer) tickUntilChanged(ctx context.Context, interval time.Duration) bool {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case <-t.changed:
			return false
		case <-ticker.C:
			select {
			case t.events <- Event{Library: "Timer", Name: "Tick"}:
			default:
			}
		}
	}
}

func (c *Console) timerLibrary() *libraries.Library {
	t := c.timer

	return &libraries.Library{
		Name:        "Timer",
		Description: "Raises Tick at a regular interval.",
		Methods: []*libraries.Method{
			{
				Name: "Pause",
				Execute: func(libraries.Call) libraries.Result {
					t.Pause()
					return libraries.Done()
				},
			},
			{
				Name: "Resume",
				Execute: func(libraries.Call) libraries.Result {
					t.Resume()
					return libraries.Done()
				},
			},
		},
		Properties: []*libraries.Property{{
			Name:        "Interval",
			Description: "Milliseconds between ticks, 0 stops the timer.",
			Getter: func(libraries.Call) libraries.Result {
				return libraries.Ready(value.NewNumber(t.Interval().Milliseconds()))
			},
			Setter: func(call libraries.Call) libraries.Result {
				ms, ok := value.ToInt(call.Arg(0))
				if !ok || ms < 0 {
					ms = 0
				}

				t.SetInterval(time.Duration(ms) * time.Millisecond)
				return libraries.Done()
			},
		}},
		Events: []*libraries.Event{{Name: "Tick", Description: "Raised every Interval milliseconds."}},
	}
}
