package envmap

import "sync/atomic"

// Store holds the current environment. One writer publishes whole
// environments, any number of readers load them.
type Store struct {
	latest atomic.Pointer[Environment]
}

func (s *Store) Publish(env *Environment) {
	s.latest.Store(env)
}

// Current returns nil until the first Publish.
func (s *Store) Current() *Environment {
	return s.latest.Load()
}
