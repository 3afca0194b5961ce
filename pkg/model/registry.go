package model

// ShapeRegistry keeps the shapes of one map keyed by raw position. KEGG files
// contain several lines with the same geometry (same box, different gene); these
// collapse into one shape carrying the union of annotations.
type ShapeRegistry struct {
	shapes map[string]*Shape
	order  []string
}

func NewShapeRegistry() *ShapeRegistry {
	return &ShapeRegistry{shapes: make(map[string]*Shape)}
}

// Add inserts shape, or merges its annotations into the shape already stored at
// the same raw position. It reports whether a merge happened.
func (r *ShapeRegistry) Add(shape *Shape) bool {
	if existing, ok := r.shapes[shape.RawPosition]; ok {
		existing.Merge(shape, false)
		return true
	}
	r.shapes[shape.RawPosition] = shape
	r.order = append(r.order, shape.RawPosition)
	return false
}

func (r *ShapeRegistry) Get(rawPosition string) (*Shape, bool) {
	s, ok := r.shapes[rawPosition]
	return s, ok
}

// All returns the shapes in insertion order.
func (r *ShapeRegistry) All() []*Shape {
	out := make([]*Shape, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.shapes[key])
	}
	return out
}

func (r *ShapeRegistry) Len() int {
	return len(r.order)
}

// AnnotationCount sums the annotations over all shapes.
func (r *ShapeRegistry) AnnotationCount() int {
	n := 0
	for _, s := range r.shapes {
		n += len(s.Annotations)
	}
	return n
}

// Merge folds other into r. Shapes at known positions are unioned, new ones are
// adopted as is; other must not be used afterwards.
func (r *ShapeRegistry) Merge(other *ShapeRegistry, expectDuplicates bool) {
	for _, key := range other.order {
		shape := other.shapes[key]
		if existing, ok := r.shapes[key]; ok {
			existing.Merge(shape, expectDuplicates)
			continue
		}
		r.shapes[key] = shape
		r.order = append(r.order, key)
	}
}
