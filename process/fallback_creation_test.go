package process_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecogov/process"
)

type stubCreation struct {
	err    error
	events []process.CreationEvent
	ran    bool
}

func (s *stubCreation) Run(ctx context.Context, out chan<- process.CreationEvent) error {
	s.ran = true
	for _, ev := range s.events {
		out <- ev
	}
	return s.err
}

func TestFallbackCreation(t *testing.T) {
	fallback := &stubCreation{events: []process.CreationEvent{{PID: 9, Name: "late"}}}
	var reason error
	s := &process.FallbackCreation{
		Primary:    &stubCreation{err: fmt.Errorf("%w: access denied", process.ErrSubscribe)},
		Fallback:   fallback,
		OnFallback: func(err error) { reason = err },
	}

	out := make(chan process.CreationEvent, 1)
	require.NoError(t, s.Run(context.Background(), out))
	assert.True(t, fallback.ran)
	assert.ErrorIs(t, reason, process.ErrSubscribe)
	assert.Equal(t, process.CreationEvent{PID: 9, Name: "late"}, <-out)
}

func TestFallbackCreation_RuntimeErrorIsFinal(t *testing.T) {
	boom := errors.New("socket closed")
	fallback := &stubCreation{}
	s := &process.FallbackCreation{
		Primary:  &stubCreation{err: boom},
		Fallback: fallback,
	}

	err := s.Run(context.Background(), make(chan process.CreationEvent))
	assert.ErrorIs(t, err, boom)
	assert.False(t, fallback.ran)
}

func TestFallbackCreation_CleanStop(t *testing.T) {
	fallback := &stubCreation{}
	s := &process.FallbackCreation{Primary: &stubCreation{}, Fallback: fallback}

	require.NoError(t, s.Run(context.Background(), make(chan process.CreationEvent)))
	assert.False(t, fallback.ran)
}
