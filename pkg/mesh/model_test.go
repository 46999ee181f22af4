package mesh

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/chazu/stlembed/pkg/kernel"
)

func v(x, y, z, nx, ny, nz float64) Vertex {
	return Vertex{X: x, Y: y, Z: z, NX: nx, NY: ny, NZ: nz}
}

// ---------------------------------------------------------------------------
// Vertex value semantics
// ---------------------------------------------------------------------------

func TestVertexEqualityUsesAllSixFields(t *testing.T) {
	base := v(1, 2, 3, 0, 0, 1)
	tests := []struct {
		name  string
		other Vertex
		equal bool
	}{
		{"identical", v(1, 2, 3, 0, 0, 1), true},
		{"x differs", v(9, 2, 3, 0, 0, 1), false},
		{"y differs", v(1, 9, 3, 0, 0, 1), false},
		{"z differs", v(1, 2, 9, 0, 0, 1), false},
		{"nx differs", v(1, 2, 3, 1, 0, 1), false},
		{"ny differs", v(1, 2, 3, 0, 1, 1), false},
		{"nz differs", v(1, 2, 3, 0, 0, -1), false},
		{"signed zero", v(1, 2, 3, math.Copysign(0, -1), 0, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base == tt.other; got != tt.equal {
				t.Errorf("(%v == %v) = %v, want %v", base, tt.other, got, tt.equal)
			}
			if tt.equal && Compare(base, tt.other) != 0 {
				t.Errorf("Compare of equal vertices = %d, want 0", Compare(base, tt.other))
			}
		})
	}
}

func TestCompareIsLexicographic(t *testing.T) {
	ordered := []Vertex{
		v(0, 0, 0, 0, 0, 0),
		v(0, 0, 0, 0, 0, 1),
		v(0, 0, 0, 0, 1, 0),
		v(0, 0, 0, 1, 0, 0),
		v(0, 0, 1, 0, 0, 0),
		v(0, 1, 0, 0, 0, 0),
		v(1, 0, 0, -5, -5, -5),
	}
	for i := 0; i+1 < len(ordered); i++ {
		a, b := ordered[i], ordered[i+1]
		if Compare(a, b) != -1 || Compare(b, a) != 1 {
			t.Errorf("expected %v < %v", a, b)
		}
	}

	shuffled := []Vertex{ordered[4], ordered[6], ordered[0], ordered[2], ordered[5], ordered[1], ordered[3]}
	slices.SortFunc(shuffled, Compare)
	if !slices.Equal(shuffled, ordered) {
		t.Errorf("sorted = %v, want %v", shuffled, ordered)
	}
}

func TestNewVertexAccessors(t *testing.T) {
	vx := NewVertex([3]float64{1, 2, 3}, [3]float64{4, 5, 6})
	if vx != v(1, 2, 3, 4, 5, 6) {
		t.Fatalf("NewVertex = %v", vx)
	}
	if vx.Position() != [3]float64{1, 2, 3} {
		t.Errorf("Position() = %v", vx.Position())
	}
	if vx.Normal() != [3]float64{4, 5, 6} {
		t.Errorf("Normal() = %v", vx.Normal())
	}
}

// ---------------------------------------------------------------------------
// Index assignment
// ---------------------------------------------------------------------------

func TestIndexAssignsDenseIndices(t *testing.T) {
	m := NewModel()
	a, b, c := v(0, 0, 0, 0, 0, 1), v(1, 0, 0, 0, 0, 1), v(0, 1, 0, 0, 0, 1)

	for want, vx := range []Vertex{a, b, c} {
		if got := m.Index(vx); got != want {
			t.Errorf("Index(%v) = %d, want %d", vx, got, want)
		}
	}
	// Repeats return the existing index and do not grow the table.
	if got := m.Index(b); got != 1 {
		t.Errorf("Index(b) again = %d, want 1", got)
	}
	if m.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", m.VertexCount())
	}
	for i, vx := range m.Vertices() {
		if m.Vertex(i) != vx || m.Index(vx) != i {
			t.Errorf("vertex %d = %v does not map back to its index", i, vx)
		}
	}
}

func TestIndexKeepsDifferentNormalsApart(t *testing.T) {
	m := NewModel()
	up := m.Index(v(0, 0, 0, 0, 0, 1))
	side := m.Index(v(0, 0, 0, 1, 0, 0))
	if up == side {
		t.Fatalf("same position with different normals got one index %d", up)
	}
	if m.VertexCount() != 2 {
		t.Errorf("VertexCount() = %d, want 2", m.VertexCount())
	}
}

// ---------------------------------------------------------------------------
// Triangles
// ---------------------------------------------------------------------------

func TestAddFacetPreservesWinding(t *testing.T) {
	m := NewModel()
	a, b, c := v(0, 0, 0, 0, 0, 1), v(1, 0, 0, 0, 0, 1), v(0, 1, 0, 0, 0, 1)

	t1 := m.AddFacet(a, b, c)
	t2 := m.AddFacet(c, b, a)

	if t1 != (Triangle{0, 1, 2}) {
		t.Errorf("first facet = %v, want {0 1 2}", t1)
	}
	if t2 != (Triangle{2, 1, 0}) {
		t.Errorf("second facet = %v, want {2 1 0}", t2)
	}
	if got := m.Triangles(); !slices.Equal(got, []Triangle{t1, t2}) {
		t.Errorf("Triangles() = %v", got)
	}
	if m.TriangleCount() != 2 || m.Triangle(1) != t2 {
		t.Errorf("TriangleCount() = %d, Triangle(1) = %v", m.TriangleCount(), m.Triangle(1))
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := NewModel()
	m.AddFacet(v(0, 0, 0, 0, 0, 1), v(1, 0, 0, 0, 0, 1), v(0, 1, 0, 0, 0, 1))

	vs := m.Vertices()
	vs[0] = v(9, 9, 9, 9, 9, 9)
	ts := m.Triangles()
	ts[0] = Triangle{2, 2, 2}

	if m.Vertex(0) != v(0, 0, 0, 0, 0, 1) {
		t.Error("mutating Vertices() result changed the model")
	}
	if m.Triangle(0) != (Triangle{0, 1, 2}) {
		t.Error("mutating Triangles() result changed the model")
	}
}

func TestBounds(t *testing.T) {
	m := NewModel()
	min, max := m.Bounds()
	if min != ([3]float64{}) || max != ([3]float64{}) {
		t.Errorf("empty Bounds() = %v, %v; want zeros", min, max)
	}

	m.AddFacet(v(-1, 2, 0, 0, 0, 1), v(3, -4, 0, 0, 0, 1), v(0, 0, 5, 0, 0, 1))
	min, max = m.Bounds()
	if min != [3]float64{-1, -4, 0} {
		t.Errorf("min = %v, want [-1 -4 0]", min)
	}
	if max != [3]float64{3, 2, 5} {
		t.Errorf("max = %v, want [3 2 5]", max)
	}
}

// ---------------------------------------------------------------------------
// Flat buffer conversion
// ---------------------------------------------------------------------------

func TestToMesh(t *testing.T) {
	m := NewModel()
	m.AddFacet(v(0, 0, 0, 0, 0, 1), v(1, 0, 0, 0, 0, 1), v(0, 1, 0, 0, 0, 1))
	m.AddFacet(v(1, 0, 0, 0, 0, 1), v(1, 1, 0, 0, 0, 1), v(0, 1, 0, 0, 0, 1))

	km := m.ToMesh("plate")
	if km.PartName != "plate" {
		t.Errorf("PartName = %q", km.PartName)
	}
	if km.VertexCount() != 4 || km.TriangleCount() != 2 {
		t.Fatalf("VertexCount = %d, TriangleCount = %d; want 4, 2", km.VertexCount(), km.TriangleCount())
	}
	if !slices.Equal(km.Indices, []uint32{0, 1, 2, 1, 3, 2}) {
		t.Errorf("Indices = %v", km.Indices)
	}
	if km.Position(3) != [3]float32{1, 1, 0} || km.Normal(3) != [3]float32{0, 0, 1} {
		t.Errorf("vertex 3 = %v / %v", km.Position(3), km.Normal(3))
	}
}

func TestFromMeshDeduplicates(t *testing.T) {
	// Two triangles sharing an edge, stored unindexed as a kernel emits them.
	km := &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2, 3, 4, 5},
	}
	m, err := FromMesh(km)
	if err != nil {
		t.Fatalf("FromMesh() error = %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", m.VertexCount())
	}
	want := []Triangle{{0, 1, 2}, {1, 3, 2}}
	if got := m.Triangles(); !slices.Equal(got, want) {
		t.Errorf("Triangles() = %v, want %v", got, want)
	}
}

func TestFromMeshRejectsBadBuffers(t *testing.T) {
	tests := []struct {
		name       string
		km         *kernel.Mesh
		outOfRange bool
	}{
		{"normals short", &kernel.Mesh{Vertices: []float32{0, 0, 0}, Normals: nil, Indices: nil}, false},
		{"ragged indices", &kernel.Mesh{Vertices: []float32{0, 0, 0}, Normals: []float32{0, 0, 1}, Indices: []uint32{0, 0}}, false},
		{"index past end", &kernel.Mesh{Vertices: []float32{0, 0, 0}, Normals: []float32{0, 0, 1}, Indices: []uint32{0, 0, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMesh(tt.km)
			if err == nil {
				t.Fatal("FromMesh() error = nil, want error")
			}
			if got := errors.Is(err, ErrIndexOutOfRange); got != tt.outOfRange {
				t.Errorf("errors.Is(err, ErrIndexOutOfRange) = %v, want %v", got, tt.outOfRange)
			}
		})
	}
}

func TestPartCount(t *testing.T) {
	p := Part{Name: "arm", Start: 12, End: 40}
	if p.Count() != 28 {
		t.Errorf("Count() = %d, want 28", p.Count())
	}
}
