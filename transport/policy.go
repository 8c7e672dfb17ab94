package transport

import (
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Retry defaults.
const (
	DefaultMaxAttempts   = 3
	DefaultBaseDelay     = 500 * time.Millisecond
	DefaultMaxDelay      = 30 * time.Second
	DefaultMultiplier    = 2.0
	DefaultJitter        = 0.2
	DefaultMaxRetryAfter = 60 * time.Second
)

// RetryPolicy decides whether and when a failed attempt is retried.
// The zero value is usable and is normalised to the defaults, except for
// Jitter, where zero means no jitter.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, the first one included.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	// Jitter is the relative spread applied to each backoff delay, in [0, 1].
	// A value of 0.2 yields delays within ±20% of the nominal backoff.
	Jitter float64
	// MaxRetryAfter caps server supplied Retry-After hints.
	MaxRetryAfter time.Duration
	// Rand returns a value in [0, 1). Nil uses math/rand/v2.
	Rand func() float64
}

// Decision is the outcome of RetryPolicy.Decide.
type Decision struct {
	Retry bool
	Delay time.Duration
}

// RetryState tracks one logical call across attempts.
type RetryState struct {
	Attempt  int
	Elapsed  time.Duration
	LastType ErrorType
	LastHint time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   DefaultMaxAttempts,
		BaseDelay:     DefaultBaseDelay,
		MaxDelay:      DefaultMaxDelay,
		Multiplier:    DefaultMultiplier,
		Jitter:        DefaultJitter,
		MaxRetryAfter: DefaultMaxRetryAfter,
	}
}

// NoRetry returns a policy that makes a single attempt.
func NoRetry() RetryPolicy {
	p := DefaultRetryPolicy()
	p.MaxAttempts = 1
	return p
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = DefaultMultiplier
	}
	p.Jitter = min(max(p.Jitter, 0), 1)
	if p.MaxRetryAfter <= 0 {
		p.MaxRetryAfter = DefaultMaxRetryAfter
	}
	return p
}

// Backoff returns the nominal delay after the given 1-based attempt, before
// jitter: BaseDelay * Multiplier^(attempt-1), capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	p = p.normalized()
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if math.IsInf(d, 0) || math.IsNaN(d) || d >= float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// Decide is a pure function of its inputs (and of Rand when jitter is on).
// attempt is the 1-based number of the attempt that just failed with kind;
// hint is the server's Retry-After, zero when absent.
//
// Terminal kinds and an exhausted budget never retry. Otherwise the delay is
// the jittered backoff capped at MaxDelay, raised to the hint when the server
// asked for longer. The hint is the minimum delay only up to MaxRetryAfter: a
// larger Retry-After is cut to MaxRetryAfter, so the retry may come before
// the time the server named.
func (p RetryPolicy) Decide(attempt int, kind ErrorType, hint time.Duration) Decision {
	p = p.normalized()
	if !kind.Transient() || attempt >= p.MaxAttempts {
		return Decision{}
	}

	delay := p.Backoff(attempt)
	if p.Jitter > 0 {
		factor := 1 + (2*p.random()-1)*p.Jitter
		delay = time.Duration(float64(delay) * factor)
		delay = min(max(delay, 0), p.MaxDelay)
	}
	if hint > 0 {
		delay = max(delay, min(hint, p.MaxRetryAfter))
	}
	return Decision{Retry: true, Delay: delay}
}

func (p RetryPolicy) random() float64 {
	if p.Rand != nil {
		return p.Rand()
	}
	return rand.Float64()
}

// ParseRetryAfter reads a Retry-After header given either as delta seconds or
// as an HTTP date relative to now.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, false
		}
		if secs >= float64(math.MaxInt64/int64(time.Second)) {
			return time.Duration(math.MaxInt64), true
		}
		return time.Duration(secs * float64(time.Second)), true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}
