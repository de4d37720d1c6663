package metascene

import "fmt"

// CreateObject allocates a new object of the given type with a reference
// count of one and links it into the live list. init carries the payload:
//
//	TypeGroup     nil
//	TypeGeometry  *VertexArrayData (subtype SubtypeVertexArray)
//	TypeMaterial  *MaterialData
//	TypeMatrix    Mat4 or *Mat4
//	TypePicture   *PictureData
//	TypeSprite    *SpriteData
//
// Every Material the payload references gains one reference. An unknown type
// or subtype, or an init value of the wrong kind, is fatal. Capacity and
// texture-size violations are returned as a *PreconditionError and no object
// is created.
func (r *Registry) CreateObject(typ ObjectType, sub Subtype, init any) (*Object, error) {
	const op = "CreateObject"
	if r.closed {
		r.corrupt(op, nil, "registry is closed")
	}
	if !validSubtype(typ, sub) {
		r.unsupported(op, typ, sub, "")
	}
	switch typ {
	case TypeGroup:
		if init != nil {
			r.unsupported(op, typ, sub, fmt.Sprintf("group takes no init data, got %T", init))
		}
		return r.allocate(typ, sub), nil

	case TypeGeometry:
		data, ok := init.(*VertexArrayData)
		if !ok || data == nil {
			r.unsupported(op, typ, sub, fmt.Sprintf("want *VertexArrayData, got %T", init))
		}
		return r.createGeometry(op, data)

	case TypeMaterial:
		data, ok := init.(*MaterialData)
		if !ok || data == nil {
			r.unsupported(op, typ, sub, fmt.Sprintf("want *MaterialData, got %T", init))
		}
		return r.createMaterial(op, data)

	case TypeMatrix:
		var m Mat4
		switch v := init.(type) {
		case Mat4:
			m = v
		case *Mat4:
			if v == nil {
				r.unsupported(op, typ, sub, "nil *Mat4")
			}
			m = *v
		default:
			r.unsupported(op, typ, sub, fmt.Sprintf("want Mat4, got %T", init))
		}
		o := r.allocate(typ, sub)
		o.matrix = &m
		return o, nil

	case TypePicture:
		data, ok := init.(*PictureData)
		if !ok || data == nil {
			r.unsupported(op, typ, sub, fmt.Sprintf("want *PictureData, got %T", init))
		}
		return r.createPicture(op, data)

	case TypeSprite:
		data, ok := init.(*SpriteData)
		if !ok || data == nil {
			r.unsupported(op, typ, sub, fmt.Sprintf("want *SpriteData, got %T", init))
		}
		return r.createSprite(op, data), nil
	}
	r.unsupported(op, typ, sub, "")
	return nil, nil
}

// validSubtype reports whether sub belongs to the closed set for typ.
func validSubtype(typ ObjectType, sub Subtype) bool {
	switch typ {
	case TypeGeometry:
		return sub == SubtypeVertexArray
	case TypeGroup, TypeMaterial, TypeMatrix, TypePicture, TypeSprite:
		return sub == SubtypeNone
	}
	return false
}

// allocate stamps a fresh object and links it at the tail of the live list.
func (r *Registry) allocate(typ ObjectType, sub Subtype) *Object {
	o := &Object{
		cookie:   objectCookie,
		refCount: 1,
		typ:      typ,
		subtype:  sub,
		reg:      r,
	}
	r.link(o)
	return o
}

// requireMaterial raises the fatal path unless m is a live Material.
func (r *Registry) requireMaterial(op string, m *Object) {
	r.validate(op, m)
	if m.typ != TypeMaterial {
		r.unsupported(op, m.typ, m.subtype, "referenced object is not a material")
	}
}

// --- Typed constructors ---

// NewGroup creates an empty Group.
func (r *Registry) NewGroup() *Object {
	o, _ := r.CreateObject(TypeGroup, SubtypeNone, nil)
	return o
}

// NewVertexArray creates a vertex-array Geometry from data.
func (r *Registry) NewVertexArray(data *VertexArrayData) (*Object, error) {
	return r.CreateObject(TypeGeometry, SubtypeVertexArray, data)
}

// NewMaterial creates a Material, uploading any pixels in data.
func (r *Registry) NewMaterial(data *MaterialData) (*Object, error) {
	return r.CreateObject(TypeMaterial, SubtypeNone, data)
}

// NewMatrix creates a Matrix object holding m.
func (r *Registry) NewMatrix(m Mat4) *Object {
	o, _ := r.CreateObject(TypeMatrix, SubtypeNone, m)
	return o
}

// NewPicture creates a Picture from a file or an existing material.
func (r *Registry) NewPicture(data *PictureData) (*Object, error) {
	return r.CreateObject(TypePicture, SubtypeNone, data)
}

// NewSprite creates a Sprite drawing data.Material.
func (r *Registry) NewSprite(data *SpriteData) *Object {
	o, _ := r.CreateObject(TypeSprite, SubtypeNone, data)
	return o
}
