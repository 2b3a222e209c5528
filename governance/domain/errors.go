package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited é o sentinel para admissões negadas pelo Limiter.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrTaskPanicked envolve um panic recuperado dentro de uma Task.
	ErrTaskPanicked = errors.New("task panicked")
	ErrNilTask      = errors.New("nil task")
)

// RateLimitError carrega a operação negada e a recomendação de espera.
type RateLimitError struct {
	Operation  Key
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded for operation %q (retry after %s)", e.Operation, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded for operation %q", e.Operation)
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }
