package fsm

import (
	"sync"

	"github.com/enetx/g"
)

// ServiceManager is a keyed registry of service health machines, one per
// monitored service id, created lazily on first access. It is explicitly
// constructed and owned by its caller; independent registries can coexist.
//
// The registry lock only serializes access to the key-to-machine map. The
// machines themselves keep the single-owner contract of FSM.
type ServiceManager struct {
	mu       sync.Mutex
	machines g.Map[g.String, *FSM]
	opts     []Option
}

// NewServiceManager builds an empty registry. Options are forwarded to every
// machine it creates.
func NewServiceManager(opts ...Option) *ServiceManager {
	return &ServiceManager{
		machines: g.NewMap[g.String, *FSM](),
		opts:     opts,
	}
}

// GetOrCreate returns the machine tracked for id, constructing and
// registering a new one on first access. The check-then-create sequence is
// serialized, so concurrent first accesses yield one machine.
func (sm *ServiceManager) GetOrCreate(id g.String) *FSM {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if m := sm.machines.Get(id); m.IsSome() {
		return m.Some()
	}

	m := NewServiceMachine(id, sm.opts...)
	sm.machines.Set(id, m)

	return m
}

// Get returns the machine tracked for id without creating one.
func (sm *ServiceManager) Get(id g.String) g.Option[*FSM] {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.machines.Get(id)
}

// CheckAll begins a probe cycle on every tracked machine. Machines are
// handled independently; one machine rejecting the event (a probe already in
// flight) does not affect the others.
func (sm *ServiceManager) CheckAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, m := range sm.machines.Iter() {
		CheckService(m)
	}
}

// ResetAll returns every tracked machine to unknown, independently.
func (sm *ServiceManager) ResetAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, m := range sm.machines.Iter() {
		ResetService(m)
	}
}

// States returns a point-in-time mapping from service id to current state.
func (sm *ServiceManager) States() g.Map[g.String, State] {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	states := g.NewMap[g.String, State]()
	for id, m := range sm.machines.Iter() {
		states.Set(id, m.Current())
	}

	return states
}

// Remove drops the machine for id from the registry, reporting whether one
// was tracked. The dropped machine is neither reset nor notified.
func (sm *ServiceManager) Remove(id g.String) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.machines.Contains(id) {
		return false
	}

	sm.machines.Delete(id)

	return true
}

// Clear drops every tracked machine.
func (sm *ServiceManager) Clear() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.machines = g.NewMap[g.String, *FSM]()
}

// Len reports how many machines the registry tracks.
func (sm *ServiceManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return len(sm.machines)
}
