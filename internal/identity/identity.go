package identity

import "sync"

// Source exposes the currently authenticated user. An empty string means
// nobody is signed in.
type Source interface {
	Current() string
	OnChange(fn func(userID string))
}

// Provider is a mutable Source for client processes where the active user
// can change mid-lifetime (login, logout, account switch).
type Provider struct {
	mu        sync.RWMutex
	userID    string
	listeners []func(string)
}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Current() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.userID
}

func (p *Provider) OnChange(fn func(userID string)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// Set updates the active user and notifies listeners. Setting the same id
// again is a no-op.
func (p *Provider) Set(userID string) {
	p.mu.Lock()
	if p.userID == userID {
		p.mu.Unlock()
		return
	}
	p.userID = userID
	listeners := make([]func(string), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(userID)
	}
}

// Static is a fixed identity, used server-side where each consumer is bound
// to one user for its whole lifetime.
type Static string

func (s Static) Current() string { return string(s) }

func (s Static) OnChange(func(userID string)) {}
