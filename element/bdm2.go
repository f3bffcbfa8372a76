package element

import (
	"github.com/meshfield/fekit/types"
	"github.com/meshfield/fekit/utils"
)

/*
BDM2 is the second order Brezzi-Douglas-Marini element on the unit
reference triangle: the full quadratic vector polynomial space, 12 dofs.
Three moments per face against the biorthogonal polynomial set

	q0(t) = 1,  q1(t) = 12(t - 1/2),  q2(t) = 180(t^2 - t + 1/6)

plus three interior moments. The basis is built hierarchically on the RT0
functions phi_f: linear face corrections psi_f with normal trace (t-1/2)
along face f and zero on the other faces, quadratic face corrections

	chi_f = mu_f*psi_f/2 - phi_f/12

with mu_f the difference of the face's barycentric coordinates (normal
trace t^2-t+1/6), and interior bubbles

	i1 = lambda1*psi2,  i2 = lambda2*psi3,  i3 = lambda3*psi1

with zero normal trace on every face. Cell-local ordering groups by degree:
[phi1..3, psi1..3, chi1..3, i1..3], so the interior block starts at 9
*/
type BDM2 struct{}

func (BDM2) Name() string       { return "BDM2" }
func (BDM2) NComponents() int   { return 2 }
func (BDM2) DofPattern() string { return "F3I3" }
func (BDM2) NMoments() int      { return 3 }

func (BDM2) IsDefined(geom types.GeometryType) bool {
	return geom == types.Triangle2D || geom == types.Edge1D
}

func (e BDM2) NDofs(kind types.EntityKind, geom types.GeometryType) int {
	switch kind {
	case types.OnCells:
		if geom == types.Triangle2D {
			return 3*geom.NumFaces() + 3
		}
	case types.OnFaces, types.OnBoundaryFaces:
		if geom == types.Edge1D {
			return 3
		}
	}
	panic(notDefined(e.Name(), kind, geom))
}

func (e BDM2) Order(geom types.GeometryType) int {
	if !e.IsDefined(geom) {
		panic(notDefined(e.Name(), types.OnCells, geom))
	}
	return 2
}

func (e BDM2) InteriorOffset(geom types.GeometryType) int {
	if geom != types.Triangle2D {
		panic(notDefined(e.Name(), types.OnCells, geom))
	}
	return 9
}

func (e BDM2) MomentPoly(k int, t float64) float64 {
	switch k {
	case 0:
		return 1
	case 1:
		return 12 * (t - 0.5)
	case 2:
		return 180 * (t*t - t + 1./6)
	}
	panic(notDefined(e.Name(), types.OnFaces, types.Edge1D))
}

func (e BDM2) Basis(kind types.EntityKind, geom types.GeometryType) BasisFunc {
	switch kind {
	case types.OnCells:
		if geom == types.Triangle2D {
			return bdm2CellBasis
		}
	case types.OnFaces, types.OnBoundaryFaces:
		if geom == types.Edge1D {
			return bdm2FaceBasis
		}
	}
	panic(notDefined(e.Name(), kind, geom))
}

// psi evaluates the three linear face corrections at (r,s)
func bdm2Psi(r, s float64) (p [3][2]float64) {
	p[0] = [2]float64{0.5 * r, 0.5 * (1 - 2*r - s)}
	p[1] = [2]float64{-0.5 * r, 0.5 * s}
	p[2] = [2]float64{0.5 * (r + 2*s - 1), -0.5 * s}
	return
}

func bdm2CellBasis(B utils.Matrix, r, s float64) {
	checkDims(B, 2, 12)
	var (
		l1, l2, l3 = 1 - r - s, r, s
		mu         = [3]float64{l2 - l1, l3 - l2, l1 - l3}
		psi        = bdm2Psi(r, s)
	)
	// RT0 block
	phi := [3][2]float64{{r, s - 1}, {r, s}, {r - 1, s}}
	for f := 0; f < 3; f++ {
		B.Set(0, f, phi[f][0])
		B.Set(1, f, phi[f][1])
	}
	// linear face corrections
	for f := 0; f < 3; f++ {
		B.Set(0, 3+f, psi[f][0])
		B.Set(1, 3+f, psi[f][1])
	}
	// quadratic face corrections
	for f := 0; f < 3; f++ {
		B.Set(0, 6+f, 0.5*mu[f]*psi[f][0]-phi[f][0]/12)
		B.Set(1, 6+f, 0.5*mu[f]*psi[f][1]-phi[f][1]/12)
	}
	// interior bubbles
	B.Set(0, 9, l1*psi[1][0])
	B.Set(1, 9, l1*psi[1][1])
	B.Set(0, 10, l2*psi[2][0])
	B.Set(1, 10, l2*psi[2][1])
	B.Set(0, 11, l3*psi[0][0])
	B.Set(1, 11, l3*psi[0][1])
}

// bdm2FaceBasis is the normal-trace basis restricted to a face, dual to the
// moment polynomials: moment j of face function k is the Kronecker delta
func bdm2FaceBasis(B utils.Matrix, t, _ float64) {
	checkDims(B, 1, 3)
	B.Set(0, 0, 1)
	B.Set(0, 1, t-0.5)
	B.Set(0, 2, t*t-t+1./6)
}

func (e BDM2) DivBasis(geom types.GeometryType) DivBasisFunc {
	if geom != types.Triangle2D {
		panic(notDefined(e.Name(), types.OnCells, geom))
	}
	return bdm2DivBasis
}

func bdm2DivBasis(D []float64, r, s float64) {
	checkLen(D, 12)
	D[0], D[1], D[2] = 2, 2, 2
	D[3], D[4], D[5] = 0, 0, 0 // psi are divergence free
	// div(mu*psi/2 - phi/12) = grad(mu).psi/2 - 1/6
	D[6] = 0.25*(1-s) - 1./6
	D[7] = 0.25*(r+s) - 1./6
	D[8] = 0.25*(1-r) - 1./6
	// div(lambda*psi) = grad(lambda).psi
	D[9] = 0.5 * (r - s)
	D[10] = 0.5 * (r + 2*s - 1)
	D[11] = 0.5 * (1 - 2*r - s)
}

func (e BDM2) Coefficients(geom types.GeometryType) CoeffFunc {
	if geom != types.Triangle2D {
		panic(notDefined(e.Name(), types.OnCells, geom))
	}
	return func(C utils.Matrix, signs [3]float64) {
		checkDims(C, 2, 12)
		C.Fill(1)
		signLowestOrderColumns(C, signs)
	}
}
