package mesh

import (
	"fmt"

	"github.com/pradeep-pyro/triangle"
)

// UnitTriangle is the single-cell mesh of the unit right triangle with
// vertices (0,0),(1,0),(0,1)
func UnitTriangle() *Mesh {
	return New(
		[]float64{0, 1, 0},
		[]float64{0, 0, 1},
		[][3]int{{0, 1, 2}},
	)
}

// UnitSquareTwoTriangles splits the unit square along the (1,0)-(0,1)
// diagonal into two triangles sharing the hypotenuse face
func UnitSquareTwoTriangles() *Mesh {
	return New(
		[]float64{0, 1, 1, 0},
		[]float64{0, 0, 1, 1},
		[][3]int{{0, 1, 3}, {1, 2, 3}},
	)
}

// CartesianSquare meshes the unit square with an n x n grid of squares, each
// split into two triangles
func CartesianSquare(n int) *Mesh {
	if n < 1 {
		panic(fmt.Errorf("CartesianSquare needs n >= 1, got %d", n))
	}
	var (
		np = n + 1
		VX = make([]float64, np*np)
		VY = make([]float64, np*np)
	)
	h := 1. / float64(n)
	for j := 0; j < np; j++ {
		for i := 0; i < np; i++ {
			VX[j*np+i] = float64(i) * h
			VY[j*np+i] = float64(j) * h
		}
	}
	var EToV [][3]int
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v00 := j*np + i
			v10 := v00 + 1
			v01 := v00 + np
			v11 := v01 + 1
			EToV = append(EToV, [3]int{v00, v10, v11}, [3]int{v00, v11, v01})
		}
	}
	return New(VX, VY, EToV)
}

// Delaunay triangulates a scattered point set with Shewchuk's Triangle and
// builds the mesh from the result
func Delaunay(points [][2]float64) *Mesh {
	if len(points) < 3 {
		panic(fmt.Errorf("Delaunay needs at least 3 points, got %d", len(points)))
	}
	tris := triangle.Delaunay(points)
	var (
		VX   = make([]float64, len(points))
		VY   = make([]float64, len(points))
		EToV = make([][3]int, len(tris))
	)
	for i, pt := range points {
		VX[i], VY[i] = pt[0], pt[1]
	}
	for i, tri := range tris {
		EToV[i] = [3]int{int(tri[0]), int(tri[1]), int(tri[2])}
	}
	return New(VX, VY, EToV)
}
