// Package ecs provides ECS adapters for canopy.
//
// The primary adapter is [SceneSync], which mirrors the [Bounds] component of
// a [Donburi] world into a canopy scene. Entities that gain, change, or lose
// their Bounds component are added, moved, or removed in the scene's spatial
// index on the next [SceneSync.Sync] call.
//
// Usage:
//
//	sync := ecs.NewSceneSync(scene)
//	// each frame, after ECS systems have run:
//	sync.Sync(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
