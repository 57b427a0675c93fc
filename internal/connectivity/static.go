package connectivity

import "sync"

// StaticSignal is a manually driven Signal for tests and for the
// forced-offline development mode.
type StaticSignal struct {
	mu     sync.Mutex
	online bool
	subs   []chan State
}

var _ Signal = (*StaticSignal)(nil)

func NewStaticSignal(online bool) *StaticSignal {
	return &StaticSignal{online: online}
}

func (s *StaticSignal) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *StaticSignal) Subscribe() <-chan State {
	ch := make(chan State, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// SetOnline flips the signal and notifies subscribers.
func (s *StaticSignal) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.online == online {
		return
	}
	s.online = online
	for _, ch := range s.subs {
		select {
		case ch <- State{Online: online}:
		default:
		}
	}
}
