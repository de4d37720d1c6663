package ecs

import (
	"fmt"

	"github.com/phanxgames/metascene"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// ModelData is the component attached to spawned entities.
type ModelData struct {
	Root   *metascene.Object
	Hidden bool
}

// Model is the Donburi component type holding an entity's scene graph root.
var Model = donburi.NewComponentType[ModelData]()

// DespawnedEvent reports that an entity released its model. Freed is true
// when that was the model's last reference.
type DespawnedEvent struct {
	Entity donburi.Entity
	Freed  bool
}

// DespawnedEventType is the Donburi event type for despawns. Subscribe to it
// in your ECS systems and call ProcessEvents each frame.
var DespawnedEventType = events.NewEventType[DespawnedEvent]()

// Scene binds a Donburi world to a metascene Registry.
type Scene struct {
	world donburi.World
	reg   *metascene.Registry
	query *donburi.Query
}

// NewScene creates a Scene spawning models from reg into world.
func NewScene(world donburi.World, reg *metascene.Registry) *Scene {
	return &Scene{
		world: world,
		reg:   reg,
		query: donburi.NewQuery(filter.Contains(Model)),
	}
}

// Spawn creates an entity drawing root. The entity takes its own reference
// to root; the caller keeps theirs.
func (s *Scene) Spawn(root *metascene.Object) donburi.Entity {
	s.reg.GetNewReference(root)
	e := s.world.Create(Model)
	Model.SetValue(s.world.Entry(e), ModelData{Root: root})
	return e
}

// Model returns the model of e, or nil if e is not a live model entity.
func (s *Scene) Model(e donburi.Entity) *ModelData {
	if !s.world.Valid(e) {
		return nil
	}
	entry := s.world.Entry(e)
	if !entry.HasComponent(Model) {
		return nil
	}
	return Model.Get(entry)
}

// SetHidden hides or shows e in DrawAll.
func (s *Scene) SetHidden(e donburi.Entity, hidden bool) {
	if m := s.Model(e); m != nil {
		m.Hidden = hidden
	}
}

// Despawn releases e's reference to its model and removes the entity.
// Unknown entities are ignored.
func (s *Scene) Despawn(e donburi.Entity) {
	m := s.Model(e)
	if m == nil {
		return
	}
	root := m.Root
	s.reg.DisposeReference(root)
	s.world.Remove(e)
	DespawnedEventType.Publish(s.world, DespawnedEvent{Entity: e, Freed: !root.Valid()})
}

// DespawnAll despawns every model entity.
func (s *Scene) DespawnAll() {
	var all []donburi.Entity
	s.query.Each(s.world, func(entry *donburi.Entry) {
		all = append(all, entry.Entity())
	})
	for _, e := range all {
		s.Despawn(e)
	}
}

// Count returns the number of model entities.
func (s *Scene) Count() int {
	return s.query.Count(s.world)
}

// DrawAll draws every visible model inside one render state scope. Drawing
// stops at the first error.
func (s *Scene) DrawAll() error {
	return s.reg.WithState(func() error {
		var err error
		s.query.Each(s.world, func(entry *donburi.Entry) {
			if err != nil {
				return
			}
			m := Model.Get(entry)
			if m.Hidden {
				return
			}
			if derr := s.reg.DrawObject(m.Root); derr != nil {
				err = fmt.Errorf("draw entity %v: %w", entry.Entity(), derr)
			}
		})
		return err
	})
}
