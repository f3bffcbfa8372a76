package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitTriangle(t *testing.T) {
	msh := UnitTriangle()
	require.Equal(t, 1, msh.NumCells())
	require.Equal(t, 3, msh.NumFaces())
	assert.InDelta(t, 0.5, msh.CellVolume(0), 1.e-15)

	// all faces are boundary, all signs +1
	assert.Len(t, msh.BoundaryFaces(), 3)
	for f := 0; f < 3; f++ {
		assert.Equal(t, 1., msh.FaceSigns[0][f])
	}

	// f1 is the bottom edge, outward normal (0,-1)
	f1 := msh.Faces[msh.EToF[0][0]]
	assert.InDelta(t, 0., f1.Normal[0], 1.e-15)
	assert.InDelta(t, -1., f1.Normal[1], 1.e-15)
	assert.InDelta(t, 1., f1.Volume, 1.e-15)

	// f2 is the hypotenuse
	f2 := msh.Faces[msh.EToF[0][1]]
	oosr2 := 1. / math.Sqrt(2)
	assert.InDelta(t, oosr2, f2.Normal[0], 1.e-15)
	assert.InDelta(t, oosr2, f2.Normal[1], 1.e-15)
	assert.InDelta(t, math.Sqrt(2), f2.Volume, 1.e-15)
}

func TestSharedFaceConnectivity(t *testing.T) {
	msh := UnitSquareTwoTriangles()
	require.Equal(t, 2, msh.NumCells())
	require.Equal(t, 5, msh.NumFaces())

	// the diagonal face is shared, owned by cell 0
	fid, ok := msh.FaceForVertices(1, 3)
	require.True(t, ok)
	face := msh.Faces[fid]
	assert.Equal(t, [2]int{0, 1}, face.Cells)
	assert.Equal(t, 1., msh.FaceSigns[0][indexOfFace(msh, 0, fid)])
	assert.Equal(t, -1., msh.FaceSigns[1][indexOfFace(msh, 1, fid)])

	// EToE agreement across the shared face
	assert.Equal(t, 1, msh.EToE[0][indexOfFace(msh, 0, fid)])
	assert.Equal(t, 0, msh.EToE[1][indexOfFace(msh, 1, fid)])

	assert.Len(t, msh.BoundaryFaces(), 4)
}

func indexOfFace(msh *Mesh, cell, fid int) int {
	for f := 0; f < NFaces; f++ {
		if msh.EToF[cell][f] == fid {
			return f
		}
	}
	return -1
}

func TestOrientationNormalization(t *testing.T) {
	// clockwise input cell must be flipped to a positive area
	msh := New(
		[]float64{0, 1, 0},
		[]float64{0, 0, 1},
		[][3]int{{0, 2, 1}},
	)
	assert.InDelta(t, 0.5, msh.CellVolume(0), 1.e-15)
}

func TestTransformRoundTrip(t *testing.T) {
	msh := UnitSquareTwoTriangles()
	for k := 0; k < msh.NumCells(); k++ {
		for _, rs := range [][2]float64{{0.2, 0.3}, {0, 0}, {1, 0}, {0.5, 0.5}} {
			x, y := msh.XYAtRef(k, rs[0], rs[1])
			r, s := msh.RefAtXY(k, x, y)
			assert.InDelta(t, rs[0], r, 1.e-14)
			assert.InDelta(t, rs[1], s, 1.e-14)
		}
	}
}

func TestJacobian(t *testing.T) {
	msh := UnitSquareTwoTriangles()
	for k := 0; k < msh.NumCells(); k++ {
		_, det := msh.Jacobian(k)
		assert.InDelta(t, 2*msh.CellVolume(k), det, 1.e-14)
	}
}

func TestLocate(t *testing.T) {
	msh := CartesianSquare(4)
	require.Equal(t, 32, msh.NumCells())

	// points across the domain, exploiting the last-cell hint
	pts := [][2]float64{{0.1, 0.1}, {0.12, 0.1}, {0.9, 0.85}, {0.5, 0.5}, {0.01, 0.99}}
	for _, pt := range pts {
		cell, r, s, found := msh.Locate(pt[0], pt[1])
		require.Truef(t, found, "point (%v,%v) not located", pt[0], pt[1])
		x, y := msh.XYAtRef(cell, r, s)
		assert.InDelta(t, pt[0], x, 1.e-13)
		assert.InDelta(t, pt[1], y, 1.e-13)
	}

	// outside the domain
	_, _, _, found := msh.Locate(1.5, -0.3)
	assert.False(t, found)
}

func TestFacePoint(t *testing.T) {
	msh := UnitTriangle()
	fid := msh.EToF[0][1] // hypotenuse from (1,0) to (0,1)
	x, y := msh.FacePoint(fid, 0.5)
	assert.InDelta(t, 0.5, x, 1.e-15)
	assert.InDelta(t, 0.5, y, 1.e-15)
}
