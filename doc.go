// Package metascene is a reference-counted 3D scene graph for [Ebitengine].
//
// A scene is built from [Object] values created by a [Registry]: groups,
// vertex arrays, materials, matrices, pictures and sprites. Objects are shared
// between owners with explicit reference counting, and drawing walks the
// graph issuing calls against a [Binding].
//
// # Quick start
//
// Create a registry over a binding, build some objects and draw them every
// frame:
//
//	b := metascene.NewEbitenBinding()
//	reg := metascene.NewRegistry(b, metascene.Config{})
//
//	mat, _ := reg.LoadMaterial("crate.png", metascene.PixelFormatRGBA, 0)
//	geo, _ := reg.NewVertexArray(&metascene.VertexArrayData{
//		Materials: []*metascene.Object{mat},
//		Points:    points,
//		UVs:       uvs,
//		Triangles: tris,
//	})
//	root := reg.NewGroup()
//	reg.AppendToGroup(root, geo)
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		b.SetTarget(screen)
//		g.reg.BeginFrame()
//		g.reg.DrawObject(g.root)
//		g.reg.EndFrame()
//	}
//
// # Reference counting
//
// Every object starts with one reference held by its creator. Take more with
// [Registry.GetNewReference] and give each back with
// [Registry.DisposeReference]. Containers own what they hold: a group owns its
// children, a vertex array its materials, a picture or sprite its material.
// Acquiring or disposing a container cascades through everything it owns, and
// an object is freed, together with its textures, when its count reaches
// zero.
//
// # Render state
//
// Groups push the render state on entry and pop it on exit, so a material or
// matrix inside a group only affects later siblings in that group. Callers can
// scope their own changes with [Registry.PushState] or [Registry.WithState].
// Registry-wide settings such as [Registry.SetGlobalTransparency] and
// [Registry.SetGlobalColorFilter] apply to every material drawn afterwards.
//
// # Errors
//
// Misuse that would leave the scene in an unknown state, such as touching a
// freed object or creating an unknown type, is fatal: the registry logs it,
// calls [Config.OnFatal] and panics with a *[CorruptionError] or
// *[UnsupportedTypeError]. Recoverable failures like a non power-of-two
// texture or a too deep group nesting are returned as a *[PreconditionError]
// wrapping one of the Err sentinels.
//
// [Ebitengine]: https://ebitengine.org
package metascene
