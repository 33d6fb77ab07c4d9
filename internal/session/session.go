// Package session resolves the acting user for the section savers. The
// authentication flow itself is an external collaborator; this package only
// answers "who is signed in right now".
package session

import (
	"errors"
	"sync"
)

// ErrUnauthenticated is returned when no user session is active. Every
// saver fails fast with it at commit time.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserProvider yields the id of the signed-in user.
type UserProvider interface {
	CurrentUserID() (string, error)
}

// StaticProvider holds a switchable user id. It backs tests and hosts that
// resolve the user out of band.
type StaticProvider struct {
	mu  sync.RWMutex
	uid string
}

func NewStaticProvider(uid string) *StaticProvider {
	return &StaticProvider{uid: uid}
}

func (p *StaticProvider) CurrentUserID() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.uid == "" {
		return "", ErrUnauthenticated
	}
	return p.uid, nil
}

// SetUserID switches the active user. An empty id signs out.
func (p *StaticProvider) SetUserID(uid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uid = uid
}
