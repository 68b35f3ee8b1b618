package walking

import "time"

// RetryPolicy decides how many times a routing request is attempted and how
// long to wait after a failed attempt. Attempts are numbered from 1.
type RetryPolicy interface {
	Attempts() int
	Delay(attempt int) time.Duration
}

// FixedRetry waits the same interval between every attempt.
type FixedRetry struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultRetry makes five attempts two seconds apart.
var DefaultRetry = FixedRetry{MaxAttempts: 5, Interval: 2 * time.Second}

func (f FixedRetry) Attempts() int                   { return f.MaxAttempts }
func (f FixedRetry) Delay(attempt int) time.Duration { return f.Interval }

// ExponentialBackoff doubles the wait after each failure, capped at Max.
type ExponentialBackoff struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
}

func (e ExponentialBackoff) Attempts() int { return e.MaxAttempts }

func (e ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := e.Initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if e.Max > 0 && d >= e.Max {
			return e.Max
		}
	}
	if e.Max > 0 && d > e.Max {
		return e.Max
	}
	return d
}

// RetryBudget sums attemptTimeout over every attempt of p and the delays
// between them.
func RetryBudget(p RetryPolicy, attemptTimeout time.Duration) time.Duration {
	n := p.Attempts()
	if n < 1 {
		n = 1
	}
	total := time.Duration(n) * attemptTimeout
	for attempt := 1; attempt < n; attempt++ {
		total += p.Delay(attempt)
	}
	return total
}
