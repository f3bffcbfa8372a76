package element

import (
	"fmt"

	"github.com/meshfield/fekit/types"
	"github.com/meshfield/fekit/utils"
)

/*
An element family is selected once, at FE-space construction, and the
returned handle is reused for the space's lifetime. All per-geometry
queries fail fast for unsupported combinations: the two shipped H(div)
families are defined on 2D triangles and their 1D edge faces only.
*/

// BasisFunc fills B (ncomponents x ndofs) with the reference basis values
// at reference coordinates (r,s). For face bases r is the face parameter
// t in [0,1] and s is ignored
type BasisFunc func(B utils.Matrix, r, s float64)

// DivBasisFunc fills D (length ndofs) with the reference divergence of each
// basis function at (r,s)
type DivBasisFunc func(D []float64, r, s float64)

// CoeffFunc fills C (ncomponents x ndofs) with per-cell correction factors
// given the cell's face orientation signs
type CoeffFunc func(C utils.Matrix, signs [3]float64)

// Type is the per-family capability set consulted by dof maps, the
// interpolation engine and the point evaluator
type Type interface {
	Name() string
	NComponents() int
	NDofs(kind types.EntityKind, geom types.GeometryType) int
	Order(geom types.GeometryType) int
	DofPattern() string
	InteriorOffset(geom types.GeometryType) int
	NMoments() int
	MomentPoly(k int, t float64) float64
	IsDefined(geom types.GeometryType) bool
	Basis(kind types.EntityKind, geom types.GeometryType) BasisFunc
	DivBasis(geom types.GeometryType) DivBasisFunc
	Coefficients(geom types.GeometryType) CoeffFunc
}

var registry = map[string]func() Type{
	"RT0":  func() Type { return RT0{} },
	"BDM2": func() Type { return BDM2{} },
}

// New resolves an element family by tag
func New(tag string) (et Type, err error) {
	ctor, ok := registry[tag]
	if !ok {
		err = fmt.Errorf("unknown element type %q", tag)
		return
	}
	et = ctor()
	return
}

func notDefined(name string, kind types.EntityKind, geom types.GeometryType) error {
	return fmt.Errorf("%s not defined for %v on %v", name, kind, geom)
}

// checkDims panics when a caller-supplied buffer disagrees with the
// declared basis dimensions
func checkDims(B utils.Matrix, nrWant, ncWant int) {
	nr, nc := B.Dims()
	if nr != nrWant || nc != ncWant {
		panic(fmt.Errorf("basis buffer is %dx%d, want %dx%d", nr, nc, nrWant, ncWant))
	}
}

func checkLen(D []float64, want int) {
	if len(D) != want {
		panic(fmt.Errorf("divergence buffer has length %d, want %d", len(D), want))
	}
}

// signLowestOrderColumns multiplies the RT0-degree column of each face by
// that face's orientation sign. Higher order face corrections and interior
// functions keep coefficient one: their moments follow the owning cell's
// face parameterization and are not resigned here
func signLowestOrderColumns(C utils.Matrix, signs [3]float64) {
	var (
		nr, _ = C.Dims()
	)
	for f := 0; f < 3; f++ {
		for i := 0; i < nr; i++ {
			C.Set(i, f, C.At(i, f)*signs[f])
		}
	}
}
