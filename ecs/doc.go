// Package ecs attaches metascene objects to entities of a [Donburi] world.
//
// A [Scene] owns one reference to every model it spawns and releases it when
// the entity is despawned, so scene graph lifetimes follow entity lifetimes:
//
//	scene := ecs.NewScene(world, reg)
//	e := scene.Spawn(ship)
//	reg.DisposeReference(ship) // the entity now holds the only reference
//	...
//	scene.DrawAll()
//
// Despawns are published as [DespawnedEventType] events.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
