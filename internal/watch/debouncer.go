package watch

import (
	"context"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
)

// FireFunc receives one coalesced burst of requests.
type FireFunc func(ctx context.Context, reason string, count int)

// Debouncer coalesces bursts of rebuild requests:
//   - quiet window: fire once no request arrived for QuietWindow
//   - max delay: fire at most MaxDelay after the first request of a burst
type Debouncer struct {
	quiet    time.Duration
	maxDelay time.Duration
	requests chan string

	readyOnce sync.Once
	ready     chan struct{}
}

// NewDebouncer validates the windows and returns an idle debouncer.
func NewDebouncer(quiet, maxDelay time.Duration) (*Debouncer, error) {
	if quiet <= 0 {
		return nil, ferrors.ValidationError("quiet window must be > 0").Build()
	}
	if maxDelay < quiet {
		return nil, ferrors.ValidationError("max delay must not be shorter than the quiet window").Build()
	}
	return &Debouncer{
		quiet:    quiet,
		maxDelay: maxDelay,
		requests: make(chan string, 64),
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once Run is consuming requests.
func (d *Debouncer) Ready() <-chan struct{} { return d.ready }

// Request asks for a rebuild. It never blocks; when the queue is full the
// request is already covered by a pending one.
func (d *Debouncer) Request(reason string) {
	select {
	case d.requests <- reason:
	default:
	}
}

// Run delivers coalesced requests to fire until ctx is done. fire runs on
// the Run goroutine, so requests arriving meanwhile form the next burst.
func (d *Debouncer) Run(ctx context.Context, fire FireFunc) {
	quietTimer := stoppedTimer()
	maxTimer := stoppedTimer()
	defer quietTimer.Stop()
	defer maxTimer.Stop()

	var (
		quietC  <-chan time.Time
		maxC    <-chan time.Time
		pending int
		reason  string
	)
	d.readyOnce.Do(func() { close(d.ready) })

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-d.requests:
			if pending == 0 {
				resetTimer(maxTimer, d.maxDelay)
				maxC = maxTimer.C
			}
			pending++
			reason = r
			resetTimer(quietTimer, d.quiet)
			quietC = quietTimer.C
			continue
		case <-quietC:
		case <-maxC:
		}

		if pending == 0 {
			continue
		}
		quietTimer.Stop()
		maxTimer.Stop()
		quietC, maxC = nil, nil
		count := pending
		pending = 0
		fire(ctx, reason, count)
	}
}

func stoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}

func resetTimer(t *time.Timer, after time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(after)
}
