package metascene

import "cogentcore.org/core/math32"

// BoundingBox is an axis-aligned box in object space.
type BoundingBox = math32.Box3

// EmptyBoundingBox returns the inverted box every walk starts from: Min at
// +Inf and Max at -Inf, so the first point sets both exactly.
func EmptyBoundingBox() BoundingBox {
	return math32.B3Empty()
}

// ComputeBoundingBox returns the box around every point of every Geometry
// reachable from o through Groups. Transforms are not applied, so a Matrix
// anywhere in the walk is fatal. Materials, Pictures and Sprites contribute
// nothing. If nothing contributes, the result IsEmpty.
func (r *Registry) ComputeBoundingBox(o *Object) BoundingBox {
	b := EmptyBoundingBox()
	r.extendBoundingBox(o, &b)
	return b
}

func (r *Registry) extendBoundingBox(o *Object, b *BoundingBox) {
	const op = "ComputeBoundingBox"
	r.validate(op, o)
	switch o.typ {
	case TypeGeometry:
		if o.subtype != SubtypeVertexArray {
			r.unsupported(op, o.typ, o.subtype, "")
		}
		b.ExpandByPoints(o.geom.Points)
	case TypeGroup:
		for _, c := range o.children {
			r.extendBoundingBox(c, b)
		}
	case TypeMatrix:
		r.unsupported(op, o.typ, o.subtype, "matrix inside a bounding box walk")
	case TypeMaterial, TypePicture, TypeSprite:
	default:
		r.unsupported(op, o.typ, o.subtype, "")
	}
}
