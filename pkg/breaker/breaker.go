package breaker

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

var ErrOpen = errors.New("circuit breaker is open")

type Breaker interface {
	Call(fn func() error) error
	Reset()
}

// breaker tracks the failure rate over a sliding window of calls.
// CLOSED passes everything through, OPEN rejects until the timeout
// elapses, HALF-OPEN passes calls until one fails or enough succeed
// in a row to close again.
type breaker struct {
	mu sync.Mutex

	state State
	// window of recent call outcomes, true = failed
	window []bool
	pos    int
	// failure share that trips the breaker
	threshold float64
	// how long OPEN lasts before probing
	timeout  time.Duration
	openedAt time.Time
	// consecutive successes needed to close from HALF-OPEN
	recovery     int
	successCount int
}

func New(windowSize int, timeout time.Duration, threshold float64, recovery int) Breaker {
	return &breaker{
		state:     Closed,
		window:    make([]bool, windowSize),
		threshold: threshold,
		timeout:   timeout,
		recovery:  recovery,
	}
}

func (b *breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == Open {
		if time.Since(b.openedAt) <= b.timeout {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = HalfOpen
		b.successCount = 0
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.window[b.pos] = err != nil
	b.pos = (b.pos + 1) % len(b.window)

	if b.state == HalfOpen {
		if err != nil {
			b.trip()
		} else {
			b.successCount++
			if b.successCount > b.recovery {
				b.reset()
			}
		}
		return err
	}

	fails := 0
	for _, failed := range b.window {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(len(b.window)) >= b.threshold {
		b.trip()
	}

	return err
}

func (b *breaker) trip() {
	b.state = Open
	b.successCount = 0
	b.openedAt = time.Now()
}

func (b *breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

func (b *breaker) reset() {
	for i := range b.window {
		b.window[i] = false
	}
	b.pos = 0
	b.successCount = 0
	b.state = Closed
}
