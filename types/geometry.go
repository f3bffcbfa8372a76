package types

// GeometryType identifies a reference element shape
type GeometryType uint8

const (
	Edge1D GeometryType = iota
	Triangle2D
	Quadrilateral2D
	Tetrahedron3D
	Hexahedron3D
)

func (g GeometryType) String() string {
	switch g {
	case Edge1D:
		return "Edge1D"
	case Triangle2D:
		return "Triangle2D"
	case Quadrilateral2D:
		return "Quadrilateral2D"
	case Tetrahedron3D:
		return "Tetrahedron3D"
	case Hexahedron3D:
		return "Hexahedron3D"
	}
	return "UnknownGeometry"
}

// Dim is the spatial dimension of the reference shape
func (g GeometryType) Dim() (d int) {
	switch g {
	case Edge1D:
		d = 1
	case Triangle2D, Quadrilateral2D:
		d = 2
	case Tetrahedron3D, Hexahedron3D:
		d = 3
	}
	return
}

// NumFaces is the face count of the reference shape; faces of 2D shapes are
// Edge1D, faces of 3D shapes are 2D shapes
func (g GeometryType) NumFaces() (nf int) {
	switch g {
	case Edge1D:
		nf = 2
	case Triangle2D:
		nf = 3
	case Quadrilateral2D:
		nf = 4
	case Tetrahedron3D:
		nf = 4
	case Hexahedron3D:
		nf = 6
	}
	return
}

// EntityKind selects the mesh entities an assembly or interpolation loop
// runs over
type EntityKind uint8

const (
	OnCells EntityKind = iota
	OnFaces
	OnBoundaryFaces
)

func (k EntityKind) String() string {
	switch k {
	case OnCells:
		return "OnCells"
	case OnFaces:
		return "OnFaces"
	case OnBoundaryFaces:
		return "OnBoundaryFaces"
	}
	return "UnknownEntityKind"
}
