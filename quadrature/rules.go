package quadrature

import (
	"fmt"

	"github.com/meshfield/fekit/types"
)

/*
Rules are stated on the unit reference domains: the edge [0,1] and the unit
triangle with vertices (0,0),(1,0),(0,1). Weights are normalized to sum to
one, so integrals are formed as (entity volume) * sum(w_q * f(x_q)).
*/

// EdgeRule holds quadrature points T in [0,1] with weights W summing to 1
type EdgeRule struct {
	Order int
	T, W  []float64
}

// Edge returns a Gauss-Legendre rule on [0,1] exact for polynomials of the
// requested order
func Edge(order int) (rule EdgeRule) {
	if order < 0 {
		panic(fmt.Errorf("negative quadrature order %d", order))
	}
	N := order / 2 // N+1 points are exact to degree 2N+1
	X, W := JacobiGQ(0, 0, N)
	rule = EdgeRule{
		Order: order,
		T:     make([]float64, N+1),
		W:     make([]float64, N+1),
	}
	for i := 0; i < N+1; i++ {
		rule.T[i] = 0.5 * (X.AtVec(i) + 1)
		rule.W[i] = 0.5 * W.AtVec(i)
	}
	return
}

// TriangleRule holds quadrature points (R,S) inside the unit triangle with
// weights W summing to 1
type TriangleRule struct {
	Order   int
	R, S, W []float64
}

// Triangle returns a conical product rule on the unit triangle exact for
// polynomials of the requested total order: a Gauss-Legendre rule in the
// collapsed direction crossed with a Gauss-Jacobi(1,0) rule that absorbs the
// (1-s) factor of the Duffy transform
func Triangle(order int) (rule TriangleRule) {
	if order < 0 {
		panic(fmt.Errorf("negative quadrature order %d", order))
	}
	N := order / 2
	XR, WR := JacobiGQ(0, 0, N)
	XS, WS := JacobiGQ(1, 0, N)
	n := N + 1
	rule = TriangleRule{
		Order: order,
		R:     make([]float64, n*n),
		S:     make([]float64, n*n),
		W:     make([]float64, n*n),
	}
	var sk int
	for j := 0; j < n; j++ {
		s := 0.5 * (XS.AtVec(j) + 1)
		ws := 0.25 * WS.AtVec(j)
		for i := 0; i < n; i++ {
			r := 0.5 * (XR.AtVec(i) + 1)
			rule.R[sk] = r * (1 - s)
			rule.S[sk] = s
			// doubled so the weights sum to 1 over the reference
			// triangle of area 1/2
			rule.W[sk] = 2 * 0.5 * WR.AtVec(i) * ws
			sk++
		}
	}
	return
}

// ForGeometry dispatches to the rule matching a reference geometry
func ForGeometry(geom types.GeometryType, order int) (R, S, W []float64) {
	switch geom {
	case types.Edge1D:
		rule := Edge(order)
		return rule.T, nil, rule.W
	case types.Triangle2D:
		rule := Triangle(order)
		return rule.R, rule.S, rule.W
	default:
		panic(fmt.Errorf("no quadrature rule defined for geometry %v", geom))
	}
}
