// Package authstate is the client's single source of truth for "who is
// logged in". Mutations go through the session store first, so the cached
// user and the persisted token can never diverge.
package authstate

import (
	"sync"

	"complaint_portal/internal/client/api"
	"complaint_portal/internal/client/session"
	"complaint_portal/internal/model"
)

// Listener is notified synchronously after every state change. The argument
// is nil after a logout.
type Listener func(*model.SessionUser)

// State holds the current authenticated user.
type State struct {
	mu        sync.Mutex
	store     *session.Store
	current   *model.SessionUser
	listeners []Listener
}

// New seeds the state from the session store. A missing or malformed
// session simply starts logged out.
func New(store *session.Store) *State {
	s := &State{store: store}
	if sess, err := store.Load(); err == nil && sess != nil {
		user := sess.User
		s.current = &user
	}
	return s
}

// CurrentUser returns the logged-in user, or nil.
func (s *State) CurrentUser() *model.SessionUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// Subscribe registers a listener for state changes. Listeners run
// synchronously, in subscription order, while the state is already updated.
func (s *State) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Login persists the session and then publishes the new user. When
// persistence fails the in-memory user is left untouched, so no observer
// ever sees a user without a matching stored token.
func (s *State) Login(res api.LoginResult) error {
	s.mu.Lock()
	if err := s.store.Save(res.Token, res.User); err != nil {
		s.mu.Unlock()
		return err
	}
	user := res.User
	s.current = &user
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(&user)
	}
	return nil
}

// Logout clears the persisted session and unsets the user. The in-memory
// user is dropped even if removing the files fails, which errs on the side
// of being logged out.
func (s *State) Logout() error {
	s.mu.Lock()
	err := s.store.Clear()
	s.current = nil
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(nil)
	}
	return err
}
