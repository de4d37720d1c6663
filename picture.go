package metascene

// Placement positions a Picture or Sprite quad in normalized device
// coordinates. A zero scale is treated as 1.
type Placement struct {
	Coord          Vec3
	ScaleX, ScaleY float32
	// Rot is the rotation about Z in radians.
	Rot float32
}

// PictureData is the payload of a Picture: a full-screen textured quad.
// Exactly one of Path and Material is used. With Path the image is loaded
// into a new Material owned by the picture; with Material the picture takes
// its own reference.
type PictureData struct {
	Path     string
	Material *Object
	Placement
}

// SpriteData is the payload of a Sprite: a quad drawn with depth testing and
// lighting off.
type SpriteData struct {
	Material *Object
	Placement
}

func (r *Registry) createPicture(op string, data *PictureData) (*Object, error) {
	pict := *data
	switch {
	case data.Material != nil:
		r.requireMaterial(op, data.Material)
		r.GetNewReference(data.Material)
	case data.Path != "":
		m, err := r.loadPictureMaterial(op, data.Path)
		if err != nil {
			return nil, err
		}
		m.mat.Flags |= MaterialClampU | MaterialClampV
		pict.Material = m
	default:
		r.unsupported(op, TypePicture, SubtypeNone, "picture needs a path or a material")
	}

	o := r.allocate(TypePicture, SubtypeNone)
	o.pict = &pict
	return o, nil
}

func (r *Registry) createSprite(op string, data *SpriteData) *Object {
	if data.Material == nil {
		r.unsupported(op, TypeSprite, SubtypeNone, "sprite needs a material")
	}
	r.requireMaterial(op, data.Material)
	r.GetNewReference(data.Material)

	sprite := *data
	o := r.allocate(TypeSprite, SubtypeNone)
	o.sprite = &sprite
	return o
}

// scales returns the placement scale with zero treated as 1.
func (p Placement) scales() (sx, sy float32) {
	sx, sy = p.ScaleX, p.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// unitQuad spans -1..1; v=0 is the top edge.
var unitQuad = [4]QuadVertex{
	{Pos: Vec3{-1, -1, 0}, UV: UV{0, 1}},
	{Pos: Vec3{1, -1, 0}, UV: UV{1, 1}},
	{Pos: Vec3{1, 1, 0}, UV: UV{1, 0}},
	{Pos: Vec3{-1, 1, 0}, UV: UV{0, 0}},
}
