package element

import (
	"github.com/meshfield/fekit/types"
	"github.com/meshfield/fekit/utils"
)

/*
RT0 is the lowest order Raviart-Thomas element on the unit reference
triangle with vertices (0,0),(1,0),(0,1). One dof per face, the normal flux
through that face. The three basis functions are the Whitney face functions

	phi_f = (x - x_opp, y - y_opp)

with (x_opp, y_opp) the vertex opposite face f, normalized so the flux of
phi_f through face g equals the Kronecker delta
*/
type RT0 struct{}

func (RT0) Name() string      { return "RT0" }
func (RT0) NComponents() int  { return 2 }
func (RT0) DofPattern() string { return "F1" }
func (RT0) NMoments() int     { return 1 }

func (RT0) IsDefined(geom types.GeometryType) bool {
	return geom == types.Triangle2D || geom == types.Edge1D
}

func (e RT0) NDofs(kind types.EntityKind, geom types.GeometryType) int {
	switch kind {
	case types.OnCells:
		if geom == types.Triangle2D {
			return geom.NumFaces()
		}
	case types.OnFaces, types.OnBoundaryFaces:
		if geom == types.Edge1D {
			return 1
		}
	}
	panic(notDefined(e.Name(), kind, geom))
}

func (e RT0) Order(geom types.GeometryType) int {
	if !e.IsDefined(geom) {
		panic(notDefined(e.Name(), types.OnCells, geom))
	}
	return 1
}

func (e RT0) InteriorOffset(geom types.GeometryType) int {
	return e.NDofs(types.OnCells, geom) // no interior dofs
}

func (e RT0) MomentPoly(k int, t float64) float64 {
	if k != 0 {
		panic(notDefined(e.Name(), types.OnFaces, types.Edge1D))
	}
	return 1
}

func (e RT0) Basis(kind types.EntityKind, geom types.GeometryType) BasisFunc {
	switch kind {
	case types.OnCells:
		if geom == types.Triangle2D {
			return rt0CellBasis
		}
	case types.OnFaces, types.OnBoundaryFaces:
		if geom == types.Edge1D {
			return rt0FaceBasis
		}
	}
	panic(notDefined(e.Name(), kind, geom))
}

func rt0CellBasis(B utils.Matrix, r, s float64) {
	checkDims(B, 2, 3)
	// opposite vertices: f1 -> (0,1), f2 -> (0,0), f3 -> (1,0)
	B.Set(0, 0, r)
	B.Set(1, 0, s-1)
	B.Set(0, 1, r)
	B.Set(1, 1, s)
	B.Set(0, 2, r-1)
	B.Set(1, 2, s)
}

func rt0FaceBasis(B utils.Matrix, r, s float64) {
	checkDims(B, 1, 1)
	B.Set(0, 0, 1) // constant normal flux density
}

func (e RT0) DivBasis(geom types.GeometryType) DivBasisFunc {
	if geom != types.Triangle2D {
		panic(notDefined(e.Name(), types.OnCells, geom))
	}
	return func(D []float64, r, s float64) {
		checkLen(D, 3)
		D[0], D[1], D[2] = 2, 2, 2
	}
}

func (e RT0) Coefficients(geom types.GeometryType) CoeffFunc {
	if geom != types.Triangle2D {
		panic(notDefined(e.Name(), types.OnCells, geom))
	}
	return func(C utils.Matrix, signs [3]float64) {
		checkDims(C, 2, 3)
		C.Fill(1)
		signLowestOrderColumns(C, signs)
	}
}
