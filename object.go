package metascene

import "fmt"

const (
	objectCookie   uint32 = 0xfeedface // stamped on every live object
	poisonedCookie uint32 = 0xdeadbeef // stamped when an object is freed
)

// Object is a node in the scene graph (a "MetaObject"). It is a tagged
// variant: Type selects which payload is populated. Objects are created by a
// Registry and are only valid with the Registry that created them.
//
// The reference count tracks logical owners. Owning a Group, Geometry,
// Picture or Sprite also owns everything it references, so acquiring or
// releasing one of those cascades through its children and materials.
type Object struct {
	cookie   uint32
	refCount int
	typ      ObjectType
	subtype  Subtype
	reg      *Registry

	// parent is the last Group this object was attached to. Diagnostic only:
	// it is never used for ownership or traversal and may be stale.
	parent *Object

	// Live list links.
	prev, next *Object

	// Payloads; exactly one is non-nil for a live object.
	children []*Object
	geom     *VertexArrayData
	mat      *MaterialData
	matrix   *Mat4
	pict     *PictureData
	sprite   *SpriteData
}

// Type returns the object's variant.
func (o *Object) Type() ObjectType { return o.typ }

// Subtype returns the object's subtype.
func (o *Object) Subtype() Subtype { return o.subtype }

// RefCount returns the number of outstanding owners. Zero means freed.
func (o *Object) RefCount() int { return o.refCount }

// Valid reports whether the object is live (its cookie is intact).
func (o *Object) Valid() bool { return o != nil && o.cookie == objectCookie }

// Parent returns the Group this object was last attached to, or nil. The
// link is informational and may refer to a freed Group.
func (o *Object) Parent() *Object { return o.parent }

// Children returns a Group's children in paint order. The returned slice
// MUST NOT be mutated by the caller.
func (o *Object) Children() []*Object { return o.children }

// NumChildren returns the number of children of a Group.
func (o *Object) NumChildren() int { return len(o.children) }

// Geometry returns the vertex-array payload of a Geometry, or nil.
func (o *Object) Geometry() *VertexArrayData { return o.geom }

// Material returns the payload of a Material, or nil.
func (o *Object) Material() *MaterialData { return o.mat }

// Matrix returns the transform of a Matrix object, or nil. It may be edited
// in place.
func (o *Object) Matrix() *Mat4 { return o.matrix }

// Placement returns the editable placement of a Picture or Sprite, or nil.
func (o *Object) Placement() *Placement {
	switch {
	case o.pict != nil:
		return &o.pict.Placement
	case o.sprite != nil:
		return &o.sprite.Placement
	}
	return nil
}

// QuadMaterial returns the material drawn by a Picture or Sprite, or nil.
func (o *Object) QuadMaterial() *Object {
	switch {
	case o.pict != nil:
		return o.pict.Material
	case o.sprite != nil:
		return o.sprite.Material
	}
	return nil
}

// SetCoord moves a Picture or Sprite. Refcounts are unaffected.
func (o *Object) SetCoord(x, y, z float32) {
	if p := o.Placement(); p != nil {
		p.Coord = Vec3{x, y, z}
	}
}

// SetScale scales a Picture or Sprite.
func (o *Object) SetScale(sx, sy float32) {
	if p := o.Placement(); p != nil {
		p.ScaleX, p.ScaleY = sx, sy
	}
}

// SetRotation sets the Z rotation of a Picture or Sprite, in radians.
func (o *Object) SetRotation(rad float32) {
	if p := o.Placement(); p != nil {
		p.Rot = rad
	}
}

func (o *Object) String() string {
	return o.describe()
}

func (o *Object) describe() string {
	if o == nil {
		return "<nil object>"
	}
	state := "live"
	switch o.cookie {
	case objectCookie:
	case poisonedCookie:
		state = "freed"
	default:
		state = fmt.Sprintf("cookie=0x%08x", o.cookie)
	}
	return fmt.Sprintf("%s/%s refs=%d %s", o.typ, o.subtype, o.refCount, state)
}

// owned calls fn for every object o holds a share of: a Group's children, a
// Geometry's materials, the material of a Picture or Sprite. Acquire and
// dispose both walk this set, so they stay exact inverses of each other.
func (o *Object) owned(fn func(*Object)) {
	switch o.typ {
	case TypeGroup:
		for _, c := range o.children {
			fn(c)
		}
	case TypeGeometry:
		for _, m := range o.geom.Materials {
			if m != nil {
				fn(m)
			}
		}
	case TypePicture:
		if o.pict.Material != nil {
			fn(o.pict.Material)
		}
	case TypeSprite:
		if o.sprite.Material != nil {
			fn(o.sprite.Material)
		}
	}
}

// --- Live list ---

// link appends o to the tail of the registry's live list.
func (r *Registry) link(o *Object) {
	if r.first == nil {
		if r.last != nil {
			r.corrupt("link", o, "list head is nil but tail is not")
		}
		o.prev = nil
		r.first, r.last = o, o
		r.count = 1
		return
	}
	o.prev = r.last
	r.last.next = o
	r.last = o
	r.count++
}

// unlink detaches o from the live list and checks the list invariants.
func (r *Registry) unlink(o *Object) {
	prev, next := o.prev, o.next
	if prev == nil {
		if r.first != o {
			r.corrupt("unlink", o, "object has no predecessor but is not the list head")
		}
		r.first = next
	} else {
		prev.next = next
	}
	if next == nil {
		if r.last != o {
			r.corrupt("unlink", o, "object has no successor but is not the list tail")
		}
		r.last = prev
	} else {
		next.prev = prev
	}
	o.prev, o.next = nil, nil

	r.count--
	if r.count < 0 {
		r.corrupt("unlink", o, "live object count went negative")
	}
	if r.count == 0 && (r.first != nil || r.last != nil) {
		r.corrupt("unlink", o, "empty list still has a head or tail")
	}
}

// NumObjects returns the number of live objects.
func (r *Registry) NumObjects() int {
	return r.count
}

// Each calls fn for every live object in creation order until fn returns
// false. fn must not create or dispose objects.
func (r *Registry) Each(fn func(*Object) bool) {
	for o := r.first; o != nil; o = o.next {
		if !fn(o) {
			return
		}
	}
}

// validate raises the fatal path unless o is a live object of this registry.
func (r *Registry) validate(op string, o *Object) {
	if o == nil {
		r.corrupt(op, nil, "nil object")
	}
	if o.cookie != objectCookie {
		r.corrupt(op, o, "cookie is invalid")
	}
	if o.reg != r {
		r.corrupt(op, o, "object belongs to another registry")
	}
}
