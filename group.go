package metascene

// AppendToGroup adds child at the end of g's paint order.
//
// Every current owner of g also becomes an owner of child, so child (and
// everything beneath it) gains one reference per reference g holds. With a
// freshly created group that is exactly one.
//
// Returns a *PreconditionError wrapping ErrCapacity when g already holds
// MaxGroupChildren children. Invalid objects, a non-Group target, or a child
// that contains g are fatal.
func (r *Registry) AppendToGroup(g, child *Object) error {
	return r.insertChild("AppendToGroup", g, child, false)
}

// AttachToGroupStart adds child at the start of g's paint order, shifting the
// existing children up. Ownership and errors are as for AppendToGroup.
func (r *Registry) AttachToGroupStart(g, child *Object) error {
	return r.insertChild("AttachToGroupStart", g, child, true)
}

func (r *Registry) insertChild(op string, g, child *Object, atStart bool) error {
	r.validate(op, g)
	r.validate(op, child)
	if g.typ != TypeGroup {
		r.unsupported(op, g.typ, g.subtype, "target is not a group")
	}
	if len(g.children) >= r.cfg.MaxGroupChildren {
		return precondition(op, ErrCapacity)
	}
	if child == g || reaches(child, g) {
		r.corrupt(op, child, "adding child would create a cycle")
	}

	for range g.refCount {
		r.GetNewReference(child)
	}

	if atStart {
		g.children = append(g.children, nil)
		copy(g.children[1:], g.children)
		g.children[0] = child
	} else {
		g.children = append(g.children, child)
	}
	child.parent = g
	if r.cfg.Debug && child.typ == TypeGroup {
		r.debugCheckGroupDepth(child)
	}
	return nil
}

// reaches reports whether target is from or lies beneath it through groups.
func reaches(from, target *Object) bool {
	if from == target {
		return true
	}
	for _, c := range from.children {
		if reaches(c, target) {
			return true
		}
	}
	return false
}
