package cli

import (
	"sync"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/client/session"
)

// Guard resolves which view to show when v is requested in session state st.
// ready is false while the session is still being restored; nothing may be
// rendered then.
func Guard(st session.Status, v models.View) (target models.View, ready bool) {
	if st == session.StatusUnknown {
		return "", false
	}
	authed := st == session.StatusAuthenticated

	switch {
	case v == models.ViewHome:
		if authed {
			return models.ViewDashboard, true
		}
		return models.ViewLogin, true
	case v == models.ViewDashboard && !authed:
		return models.ViewLogin, true
	case (v == models.ViewLogin || v == models.ViewRegister) && authed:
		return models.ViewDashboard, true
	default:
		return v, true
	}
}

// Router tracks the current console view. It implements client.Navigator.
// Navigating to the current view is a no-op, so repeated redirects converge.
type Router struct {
	mu      sync.Mutex
	current models.View
	onEnter []func(models.View)
}

func NewRouter() *Router {
	return &Router{current: models.ViewHome}
}

func (r *Router) Current() models.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Navigate(v models.View) {
	r.mu.Lock()
	if r.current == v {
		r.mu.Unlock()
		return
	}
	r.current = v
	hooks := r.onEnter
	r.mu.Unlock()

	for _, h := range hooks {
		h(v)
	}
}

// OnEnter registers h to run after every view change. Hooks run on the
// navigating goroutine without the router lock held.
func (r *Router) OnEnter(h func(models.View)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEnter = append(r.onEnter, h)
}
