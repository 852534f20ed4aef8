package process

import (
	"context"
	"errors"
)

// FallbackCreation runs Primary and switches to Fallback when Primary cannot
// subscribe at all (it returned ErrSubscribe). Failures after a successful
// subscription are returned as is.
type FallbackCreation struct {
	Primary  CreationSource
	Fallback CreationSource

	// OnFallback, when set, is told why Primary was abandoned
	OnFallback func(err error)
}

func (s *FallbackCreation) Run(ctx context.Context, out chan<- CreationEvent) error {
	err := s.Primary.Run(ctx, out)
	if err == nil || !errors.Is(err, ErrSubscribe) || s.Fallback == nil {
		return err
	}

	if s.OnFallback != nil {
		s.OnFallback(err)
	}
	return s.Fallback.Run(ctx, out)
}
