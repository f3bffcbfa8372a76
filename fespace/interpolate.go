package fespace

import (
	"fmt"

	"github.com/meshfield/fekit/quadrature"
	"github.com/meshfield/fekit/types"
	"github.com/meshfield/fekit/utils"
)

// QueryPoint carries the evaluation context handed to user data callbacks.
// Time is zero during interpolation; the point evaluator fills it with the
// evaluation time it was bound with
type QueryPoint struct {
	X, Y   float64 // physical coordinates
	R, S   float64 // reference coordinates (cells) or face parameter in R (faces)
	Time   float64
	Item   int // owning cell or face id
	Region int
}

// DataFunc supplies field values at a query point. The returned slice must
// have exactly NComponents entries; any other length is a configuration
// error surfaced immediately
type DataFunc func(qp *QueryPoint) ([]float64, error)

/*
Interpolate projects data onto the dofs of the block's FE space.

For OnFaces/OnBoundaryFaces the normal flux moments of the data against the
face moment polynomials are computed by edge quadrature and stored directly,
moment by moment. For OnCells the face path runs first on the cells' faces,
then families with interior dofs get a per-cell dense solve: the face dofs
are already fixed, so their effect is subtracted from the interior moment
right-hand side before solving (static condensation at element level).

items restricts the operation to the given face or cell ids; absent, all
entities of the kind are targeted
*/
func Interpolate(b *FEVectorBlock, kind types.EntityKind, data DataFunc, items ...int) error {
	var (
		sp = b.Space
	)
	switch kind {
	case types.OnFaces:
		if len(items) == 0 {
			items = allItems(sp.Mesh.NumFaces())
		}
		return interpolateFaces(b, data, items)
	case types.OnBoundaryFaces:
		if len(items) == 0 {
			items = sp.Mesh.BoundaryFaces()
		}
		return interpolateFaces(b, data, items)
	case types.OnCells:
		if len(items) == 0 {
			items = allItems(sp.Mesh.NumCells())
		}
		return interpolateCells(b, data, items)
	}
	panic(fmt.Errorf("interpolation not defined for entity kind %v", kind))
}

func allItems(n int) (items []int) {
	items = make([]int, n)
	for i := range items {
		items[i] = i
	}
	return
}

func checkData(sp *FESpace, vals []float64) {
	if len(vals) != sp.Element.NComponents() {
		panic(fmt.Errorf("data callback returned %d components, element %s has %d",
			len(vals), sp.Element.Name(), sp.Element.NComponents()))
	}
}

func interpolateFaces(b *FEVectorBlock, data DataFunc, faces []int) error {
	var (
		sp      = b.Space
		msh     = sp.Mesh
		et      = sp.Element
		dm      = sp.DM
		nm      = et.NMoments()
		rule    = quadrature.Edge(2 * et.Order(types.Triangle2D))
		entries = b.View()
		moments = make([]float64, nm)
		fdofs   = make([]int, nm)
		qp      QueryPoint
	)
	for _, f := range faces {
		face := msh.Faces[f]
		for k := range moments {
			moments[k] = 0
		}
		for q, t := range rule.T {
			x, y := msh.FacePoint(f, t)
			qp = QueryPoint{X: x, Y: y, R: t, Item: f, Region: msh.FaceRegion(f)}
			vals, err := data(&qp)
			if err != nil {
				return fmt.Errorf("data callback failed on face %d: %w", f, err)
			}
			checkData(sp, vals)
			flux := (vals[0]*face.Normal[0] + vals[1]*face.Normal[1]) * face.Volume
			// one pass per moment, no branching on dof layout
			for k := 0; k < nm; k++ {
				moments[k] += rule.W[q] * et.MomentPoly(k, t) * flux
			}
		}
		dm.FaceDofs(f, fdofs)
		for k := 0; k < nm; k++ {
			entries[fdofs[k]] = moments[k]
		}
	}
	return nil
}

func interpolateCells(b *FEVectorBlock, data DataFunc, cells []int) error {
	var (
		sp  = b.Space
		msh = sp.Mesh
	)
	// face dofs first, each face once
	seen := make(map[int]bool)
	var faces []int
	for _, c := range cells {
		for f := 0; f < len(msh.EToF[c]); f++ {
			fid := msh.EToF[c][f]
			if !seen[fid] {
				seen[fid] = true
				faces = append(faces, fid)
			}
		}
	}
	if err := interpolateFaces(b, data, faces); err != nil {
		return err
	}
	if sp.DM.NInterior() == 0 {
		return nil
	}
	return solveInteriorDofs(b, data, cells)
}

/*
solveInteriorDofs fixes the interior dofs of each cell by moments against
the test functions {grad lambda2, grad lambda3, curl(lambda1 lambda2 lambda3)}.
The interior mass matrix IMM pairs the interior basis functions with the
test functions; the face basis functions, whose dofs are already fixed,
contribute through IMM_face and are subtracted from the right-hand side
before the dense solve
*/
func solveInteriorDofs(b *FEVectorBlock, data DataFunc, cells []int) error {
	var (
		sp      = b.Space
		msh     = sp.Mesh
		et      = sp.Element
		dm      = sp.DM
		geom    = types.Triangle2D
		ncomp   = et.NComponents()
		ndofs   = et.NDofs(types.OnCells, geom)
		nint    = dm.NInterior()
		nface   = et.InteriorOffset(geom)
		basis   = et.Basis(types.OnCells, geom)
		coeff   = et.Coefficients(geom)
		rule    = quadrature.Triangle(2 * et.Order(geom))
		entries = b.View()
		B       = utils.NewMatrix(ncomp, ndofs)
		C       = utils.NewMatrix(ncomp, ndofs)
		dofs    = make([]int, ndofs)
		qp      QueryPoint
	)
	for _, c := range cells {
		var (
			IMM     = utils.NewMatrix(nint, nint)
			IMMface = utils.NewMatrix(nint, nface)
			lb      = utils.NewVector(nint)
			vol     = msh.CellVolume(c)
			region  = msh.CellRegion(c)
		)
		J, _ := msh.Jacobian(c)
		coeff(C, msh.FaceSigns[c])
		dm.CellDofs(c, dofs)
		for q := range rule.W {
			r, s := rule.R[q], rule.S[q]
			x, y := msh.XYAtRef(c, r, s)
			basis(B, r, s)
			qp = QueryPoint{X: x, Y: y, R: r, S: s, Item: c, Region: region}
			vals, err := data(&qp)
			if err != nil {
				return fmt.Errorf("data callback failed on cell %d: %w", c, err)
			}
			checkData(sp, vals)
			// inverse Piola: bring the physical data back to the reference
			// cell, where the basis and test functions live
			var (
				vr = J[1][1]*vals[0] - J[0][1]*vals[1]
				vs = J[0][0]*vals[1] - J[1][0]*vals[0]
			)
			w := rule.W[q] * vol
			tf := interiorTestFunctions(r, s)
			for j := 0; j < nint; j++ {
				lb.DataP[j] += w * (vr*tf[j][0] + vs*tf[j][1])
				for k := 0; k < nint; k++ {
					col := nface + k
					IMM.Set(j, k, IMM.At(j, k)+
						w*(C.At(0, col)*B.At(0, col)*tf[j][0]+C.At(1, col)*B.At(1, col)*tf[j][1]))
				}
				for m := 0; m < nface; m++ {
					IMMface.Set(j, m, IMMface.At(j, m)+
						w*(C.At(0, m)*B.At(0, m)*tf[j][0]+C.At(1, m)*B.At(1, m)*tf[j][1]))
				}
			}
		}
		// project out the already-determined face dofs
		for j := 0; j < nint; j++ {
			for m := 0; m < nface; m++ {
				lb.DataP[j] -= IMMface.At(j, m) * entries[dofs[m]]
			}
		}
		x := IMM.LUSolve(lb)
		for l := 0; l < nint; l++ {
			entries[dofs[nface+l]] = x.DataP[l]
		}
	}
	return nil
}

// interiorTestFunctions evaluates {grad lambda2, grad lambda3, curl of the
// cubic bubble lambda1*lambda2*lambda3} at (r,s)
func interiorTestFunctions(r, s float64) (tf [3][2]float64) {
	tf[0] = [2]float64{1, 0}
	tf[1] = [2]float64{0, 1}
	tf[2] = [2]float64{r * (1 - r - 2*s), -s * (1 - 2*r - s)}
	return
}
