package navigation

import "sync"

// Observer receives route change events from a Router.
type Observer interface {
	OnRouteChangeStart(route string)
	OnRouteChangeComplete(route string)
}

// Router is the host's history. Push and Replace notify subscribed
// observers, possibly synchronously.
type Router interface {
	Push(route string)
	Replace(route string)
	Subscribe(o Observer) (unsubscribe func())
}

// MemoryRouter is an in-process Router with a back stack. Observers are
// called synchronously on the goroutine that changed the route, outside
// the router's lock.
type MemoryRouter struct {
	mu        sync.Mutex
	history   []string
	observers map[int]Observer
	nextID    int
}

// NewMemoryRouter creates a router positioned at initial.
func NewMemoryRouter(initial string) *MemoryRouter {
	return &MemoryRouter{history: []string{initial}, observers: map[int]Observer{}}
}

// Current returns the route at the top of the history.
func (r *MemoryRouter) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[len(r.history)-1]
}

// History returns a copy of the back stack, oldest first.
func (r *MemoryRouter) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

func (r *MemoryRouter) Push(route string) {
	r.mu.Lock()
	r.history = append(r.history, route)
	r.mu.Unlock()
	r.notify(route)
}

func (r *MemoryRouter) Replace(route string) {
	r.mu.Lock()
	r.history[len(r.history)-1] = route
	r.mu.Unlock()
	r.notify(route)
}

// Back pops the current route and navigates to the previous one. It
// reports false when there is nothing to go back to.
func (r *MemoryRouter) Back() bool {
	r.mu.Lock()
	if len(r.history) < 2 {
		r.mu.Unlock()
		return false
	}
	r.history = r.history[:len(r.history)-1]
	route := r.history[len(r.history)-1]
	r.mu.Unlock()
	r.notify(route)
	return true
}

func (r *MemoryRouter) Subscribe(o Observer) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = o
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.observers, id)
			r.mu.Unlock()
		})
	}
}

func (r *MemoryRouter) notify(route string) {
	r.mu.Lock()
	obs := make([]Observer, 0, len(r.observers))
	for i := 0; i < r.nextID; i++ {
		if o, ok := r.observers[i]; ok {
			obs = append(obs, o)
		}
	}
	r.mu.Unlock()

	for _, o := range obs {
		o.OnRouteChangeStart(route)
	}
	for _, o := range obs {
		o.OnRouteChangeComplete(route)
	}
}
