package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// Bounds is the Donburi component holding an entity's world-space AABB.
// Attach it to any entity that should participate in culling and batching.
var Bounds = donburi.NewComponentType[canopy.AABB]()

// SceneSync mirrors Bounds components into a canopy scene. It owns the
// entity-to-element-id mapping; the scene never sees Donburi entities.
type SceneSync struct {
	scene *canopy.Scene
	ids   map[donburi.Entity]canopy.ElementID
	boxes map[donburi.Entity]canopy.AABB
	query *donburi.Query
	seen  map[donburi.Entity]bool
}

// NewSceneSync creates a SceneSync feeding the given scene.
func NewSceneSync(scene *canopy.Scene) *SceneSync {
	return &SceneSync{
		scene: scene,
		ids:   make(map[donburi.Entity]canopy.ElementID),
		boxes: make(map[donburi.Entity]canopy.AABB),
		query: donburi.NewQuery(filter.Contains(Bounds)),
		seen:  make(map[donburi.Entity]bool),
	}
}

// ID returns the element id assigned to entity, if it has been synced.
func (s *SceneSync) ID(entity donburi.Entity) (canopy.ElementID, bool) {
	id, ok := s.ids[entity]
	return id, ok
}

// Sync walks the world's Bounds entities and applies the differences to the
// scene: new entities are added, changed boxes are moved, and entities that
// lost their Bounds component (or were removed) are dropped from the index.
// Call it once per frame from the same goroutine that owns the scene.
// Entities with non-finite bounds are skipped and reported.
func (s *SceneSync) Sync(world donburi.World) error {
	var firstErr error
	clear(s.seen)

	s.query.Each(world, func(entry *donburi.Entry) {
		entity := entry.Entity()
		s.seen[entity] = true
		box := *Bounds.Get(entry)

		if prev, ok := s.boxes[entity]; ok && prev == box {
			return
		}

		id, known := s.ids[entity]
		if !known {
			id = s.scene.AllocateID()
		}
		if err := s.scene.NotifyElementMoved(id, box); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		s.ids[entity] = id
		s.boxes[entity] = box
	})

	for entity, id := range s.ids {
		if s.seen[entity] {
			continue
		}
		s.scene.NotifyElementRemoved(id)
		delete(s.ids, entity)
		delete(s.boxes, entity)
	}
	return firstErr
}
