package sim

import (
	"log"

	"github.com/tannerhall/ravine/physics"
)

// Entity is any gameplay object owning at most one body.
type Entity interface {
	Body() physics.BodyHandle
	Update(dt float64)
}

// Registry owns the handle-to-entity mapping and the deferred-destruction
// queue. Destruction is never applied mid-frame: multiple events in one
// step may reference the same handle, so queued handles stay resolvable
// until FlushDestroyed runs at the end of the frame.
type Registry struct {
	engine *physics.Engine

	entities map[physics.BodyHandle]Entity
	tags     map[physics.BodyHandle]physics.UserData
	order    []physics.BodyHandle

	pending    []physics.BodyHandle
	pendingSet map[physics.BodyHandle]struct{}

	onRemove []func(physics.BodyHandle)
}

// NewRegistry creates an empty registry backed by the engine.
func NewRegistry(engine *physics.Engine) *Registry {
	return &Registry{
		engine:     engine,
		entities:   make(map[physics.BodyHandle]Entity),
		tags:       make(map[physics.BodyHandle]physics.UserData),
		pendingSet: make(map[physics.BodyHandle]struct{}),
	}
}

// Register inserts an entity under its handle. Null handles (failed
// creation upstream) and duplicate handles are logged and skipped.
func (r *Registry) Register(h physics.BodyHandle, e Entity, tag physics.UserData) {
	if h.IsNull() {
		log.Printf("Registry: skipping registration of null handle (%T)", tag)
		return
	}
	if _, exists := r.entities[h]; exists {
		log.Printf("Registry: duplicate registration for handle (%T)", tag)
		return
	}
	r.entities[h] = e
	r.tags[h] = tag
	r.order = append(r.order, h)
}

// Lookup resolves a handle to its entity. Returns false for handles that
// were never registered or have already been flushed.
func (r *Registry) Lookup(h physics.BodyHandle) (Entity, bool) {
	e, ok := r.entities[h]
	return e, ok
}

// Tag returns the semantic tag the handle was registered with.
func (r *Registry) Tag(h physics.BodyHandle) physics.UserData {
	return r.tags[h]
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Each visits live entities in registration order.
func (r *Registry) Each(visit func(physics.BodyHandle, Entity)) {
	for _, h := range r.order {
		if e, ok := r.entities[h]; ok {
			visit(h, e)
		}
	}
}

// OnRemove registers a hook fired when an entry leaves the registry, before
// the physics body is destroyed (so the handle is still valid inside the
// hook). The culler and grounding machine unregister through this.
func (r *Registry) OnRemove(hook func(physics.BodyHandle)) {
	r.onRemove = append(r.onRemove, hook)
}

// QueueDestroy appends the handle to the pending-destruction list. Queuing
// the same handle twice is a no-op.
func (r *Registry) QueueDestroy(h physics.BodyHandle) {
	if h.IsNull() {
		return
	}
	if _, queued := r.pendingSet[h]; queued {
		return
	}
	r.pendingSet[h] = struct{}{}
	r.pending = append(r.pending, h)
}

// PendingDestroy returns the number of queued handles.
func (r *Registry) PendingDestroy() int {
	return len(r.pending)
}

// FlushDestroyed applies the queued destructions: each handle is removed
// from the registry first, then destroyed in the engine. Engine failures
// (stale handles) are logged and skipped; the registry entry is gone either
// way.
func (r *Registry) FlushDestroyed() {
	if len(r.pending) == 0 {
		return
	}
	for _, h := range r.pending {
		delete(r.pendingSet, h)
		if _, ok := r.entities[h]; ok {
			delete(r.entities, h)
			delete(r.tags, h)
			r.removeFromOrder(h)
		}
		for _, hook := range r.onRemove {
			hook(h)
		}
		if err := r.engine.DestroyBody(h); err != nil {
			log.Printf("Registry: destroy failed, skipping: %v", err)
		}
	}
	r.pending = r.pending[:0]
}

func (r *Registry) removeFromOrder(h physics.BodyHandle) {
	for i, o := range r.order {
		if o == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
