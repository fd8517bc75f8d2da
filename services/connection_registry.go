package services

import "sync"

// Emitter is the transport-side handle the matchmaking core needs: an opaque
// connection id and the ability to push named events to that connection.
// socket.io connections satisfy it directly; tests substitute fakes.
type Emitter interface {
	ID() string
	Emit(event string, args ...interface{})
}

// ConnectionRegistry tracks live connections by id. It holds no logic beyond
// existence and lookup; the pairing engine consults it to re-validate liveness
// before committing a pairing.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	conns map[string]Emitter
}

// NewConnectionRegistry creates an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{conns: make(map[string]Emitter)}
}

// Register adds or replaces the handle for a connection id.
func (r *ConnectionRegistry) Register(c Emitter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID()] = c
}

// Unregister drops a connection handle. Unknown ids are a no-op.
func (r *ConnectionRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Get returns the handle for a connection id, if still live.
func (r *ConnectionRegistry) Get(id string) (Emitter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// IsLive reports whether a connection id is currently registered.
func (r *ConnectionRegistry) IsLive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[id]
	return ok
}

// Count returns the number of live connections.
func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
