package utils

import "gonum.org/v1/gonum/mat"

func POW(x float64, pp int) (y float64) {
	y = 1
	for i := 0; i < pp; i++ {
		y *= x
	}
	return
}

// NewSymTriDiagonal builds a dense symmetric matrix from a main diagonal d0
// and first super/sub diagonal d1, used by the Jacobi-Gauss eigensolve.
func NewSymTriDiagonal(d0, d1 []float64) (J *mat.SymDense) {
	J = mat.NewSymDense(len(d0), nil)
	for i, val := range d0 {
		J.SetSym(i, i, val)
	}
	for i, val := range d1 {
		J.SetSym(i, i+1, val)
	}
	return
}
