package http

import "time"

// rateLimiter bounds the socket events one connection may submit per
// minute. Typing notifications dominate inbound traffic, so the limit
// has to leave room for a burst of them between ticker resets.
type rateLimiter struct {
	limit   int
	counter int
	reset   *time.Ticker
}

// newRateLimiter builds a limiter; limit <= 0 disables it.
func newRateLimiter(limit int) *rateLimiter {
	if limit <= 0 {
		return &rateLimiter{limit: 0}
	}
	return &rateLimiter{
		limit: limit,
		reset: time.NewTicker(time.Minute),
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	r.counter++
	return r.counter <= r.limit
}

func (r *rateLimiter) startReset(stop <-chan struct{}) {
	if r == nil || r.reset == nil {
		return
	}
	go func() {
		for {
			select {
			case <-r.reset.C:
				r.counter = 0
			case <-stop:
				r.reset.Stop()
				return
			}
		}
	}()
}
