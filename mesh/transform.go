package mesh

import "fmt"

/*
Each triangle cell carries the affine map from the unit reference triangle
with vertices (0,0),(1,0),(0,1):

	x(r,s) = p1 + r*(p2-p1) + s*(p3-p1)

Relocating an evaluation to a new reference point needs no rebuild, the map
is stateless per cell.
*/

// XYAtRef maps reference coordinates (r,s) of cell k to physical (x,y)
func (msh *Mesh) XYAtRef(k int, r, s float64) (x, y float64) {
	var (
		v = msh.EToV[k]
	)
	x1, y1 := msh.VX[v[0]], msh.VY[v[0]]
	x2, y2 := msh.VX[v[1]], msh.VY[v[1]]
	x3, y3 := msh.VX[v[2]], msh.VY[v[2]]
	x = x1 + r*(x2-x1) + s*(x3-x1)
	y = y1 + r*(y2-y1) + s*(y3-y1)
	return
}

// Jacobian returns the (constant) Jacobian of cell k's affine map and its
// determinant. Cells are kept counterclockwise, so det is positive and
// equals twice the cell area
func (msh *Mesh) Jacobian(k int) (J [2][2]float64, det float64) {
	var (
		v = msh.EToV[k]
	)
	x1, y1 := msh.VX[v[0]], msh.VY[v[0]]
	J[0][0] = msh.VX[v[1]] - x1
	J[0][1] = msh.VX[v[2]] - x1
	J[1][0] = msh.VY[v[1]] - y1
	J[1][1] = msh.VY[v[2]] - y1
	det = J[0][0]*J[1][1] - J[0][1]*J[1][0]
	return
}

// RefAtXY inverts the affine map of cell k at physical (x,y)
func (msh *Mesh) RefAtXY(k int, x, y float64) (r, s float64) {
	var (
		v = msh.EToV[k]
	)
	x1, y1 := msh.VX[v[0]], msh.VY[v[0]]
	a, b := msh.VX[v[1]]-x1, msh.VX[v[2]]-x1
	c, d := msh.VY[v[1]]-y1, msh.VY[v[2]]-y1
	det := a*d - b*c
	if det == 0 {
		panic(fmt.Errorf("degenerate affine map for cell %d", k))
	}
	bx, by := x-x1, y-y1
	r = (d*bx - b*by) / det
	s = (a*by - c*bx) / det
	return
}
