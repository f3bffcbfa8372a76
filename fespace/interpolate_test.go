package fespace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshfield/fekit/element"
	"github.com/meshfield/fekit/mesh"
	"github.com/meshfield/fekit/types"
	"github.com/meshfield/fekit/utils"
)

func constantField(vx, vy float64) DataFunc {
	return func(qp *QueryPoint) ([]float64, error) {
		return []float64{vx, vy}, nil
	}
}

func rt0Block(t *testing.T, msh *mesh.Mesh) *FEVectorBlock {
	et, err := element.New("RT0")
	require.NoError(t, err)
	sp := NewFESpace("velocity", msh, et)
	return NewFEVector(BlockSpec{Name: "velocity", Tag: "u", Space: sp}).Block(0)
}

// The flux dofs of a constant field are its normal components scaled by the
// face lengths. On the unit right triangle the field (1,0) has no flux
// through the bottom, unit flux through the hypotenuse and -1 through the
// left face.
func TestInterpolateRT0ConstantUnitTriangle(t *testing.T) {
	var (
		msh = mesh.UnitTriangle()
		b   = rt0Block(t, msh)
	)
	require.NoError(t, Interpolate(b, types.OnCells, constantField(1, 0)))
	require.Equal(t, 3, b.Len())
	assert.InDelta(t, 0, b.At(0), 1e-13)
	assert.InDelta(t, 1, b.At(1), 1e-13)
	assert.InDelta(t, -1, b.At(2), 1e-13)
}

// Every face dof must equal the flux of the field through that face with
// respect to the global face normal, the shared diagonal included exactly
// once.
func TestInterpolateRT0SharedFace(t *testing.T) {
	var (
		msh    = mesh.UnitSquareTwoTriangles()
		b      = rt0Block(t, msh)
		vx, vy = 2.0, -1.0
	)
	require.NoError(t, Interpolate(b, types.OnCells, constantField(vx, vy)))
	for f := 0; f < msh.NumFaces(); f++ {
		face := msh.Faces[f]
		want := (vx*face.Normal[0] + vy*face.Normal[1]) * face.Volume
		assert.InDeltaf(t, want, b.At(f), 1e-13, "face %d", f)
	}
}

func TestInterpolateBoundaryFacesOnly(t *testing.T) {
	var (
		msh = mesh.UnitSquareTwoTriangles()
		b   = rt0Block(t, msh)
	)
	b.Fill(math.NaN())
	require.NoError(t, Interpolate(b, types.OnBoundaryFaces, constantField(1, 1)))
	shared, found := msh.FaceForVertices(1, 3)
	require.True(t, found)
	for f := 0; f < msh.NumFaces(); f++ {
		if f == shared {
			assert.True(t, math.IsNaN(b.At(f)), "interior face must stay untouched")
			continue
		}
		assert.False(t, math.IsNaN(b.At(f)))
	}
}

// Interpolating a field that lies in the BDM2 space must reproduce its dof
// vector. The field here is a combination of interior bubbles, so all face
// moments vanish and the interior solve has to recover the coefficients.
func TestInterpolateBDM2InteriorBubbles(t *testing.T) {
	var (
		msh     = mesh.UnitTriangle()
		et, err = element.New("BDM2")
	)
	require.NoError(t, err)
	var (
		sp    = NewFESpace("flux", msh, et)
		b     = NewFEVector(BlockSpec{Name: "flux", Tag: "q", Space: sp}).Block(0)
		basis = et.Basis(types.OnCells, types.Triangle2D)
		B     = utils.NewMatrix(2, 12)
		iOff  = et.InteriorOffset(types.Triangle2D)
		coef  = [3]float64{2, 0, -0.5}
	)
	data := func(qp *QueryPoint) ([]float64, error) {
		// physical == reference on the unit triangle
		basis(B, qp.X, qp.Y)
		var vx, vy float64
		for l := 0; l < 3; l++ {
			vx += coef[l] * B.At(0, iOff+l)
			vy += coef[l] * B.At(1, iOff+l)
		}
		return []float64{vx, vy}, nil
	}
	require.NoError(t, Interpolate(b, types.OnCells, data))

	for f := 0; f < 3; f++ {
		for k := 0; k < 3; k++ {
			assert.InDeltaf(t, 0, b.At(sp.DM.FaceDof(f, k)), 1e-11, "face %d moment %d", f, k)
		}
	}
	for l := 0; l < 3; l++ {
		assert.InDeltaf(t, coef[l], b.At(sp.DM.InteriorDof(0, l)), 1e-10, "interior dof %d", l)
	}
}

func TestInterpolateDataLengthChecked(t *testing.T) {
	var (
		msh = mesh.UnitTriangle()
		b   = rt0Block(t, msh)
	)
	bad := func(qp *QueryPoint) ([]float64, error) {
		return []float64{1}, nil
	}
	assert.Panics(t, func() { _ = Interpolate(b, types.OnCells, bad) })
}
