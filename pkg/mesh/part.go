package mesh

// Part names a contiguous run of triangles [Start, End) inside a model that
// combines several independently parsed inputs.
type Part struct {
	Name  string
	Start int
	End   int
}

// Count returns the number of triangles in the part.
func (p Part) Count() int {
	return p.End - p.Start
}
