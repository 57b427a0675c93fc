package connectivity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaticSignalFlip(t *testing.T) {
	s := NewStaticSignal(false)
	assert.False(t, s.Online())

	s.SetOnline(true)
	assert.True(t, s.Online())
}

func TestSubscribeDeliversTransitions(t *testing.T) {
	s := NewStaticSignal(false)
	events := s.Subscribe()

	s.SetOnline(true)
	select {
	case state := <-events:
		assert.True(t, state.Online)
	case <-time.After(time.Second):
		t.Fatal("expected a transition event")
	}
}

func TestNoEventWithoutTransition(t *testing.T) {
	s := NewStaticSignal(true)
	events := s.Subscribe()

	// setting the same state is not a transition
	s.SetOnline(true)
	select {
	case <-events:
		t.Fatal("unexpected event for no-op state change")
	default:
	}
}
