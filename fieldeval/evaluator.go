package fieldeval

import (
	"fmt"

	"github.com/meshfield/fekit/element"
	"github.com/meshfield/fekit/fespace"
	"github.com/meshfield/fekit/mesh"
	"github.com/meshfield/fekit/types"
	"github.com/meshfield/fekit/utils"
)

// Operator selects what is evaluated from a basis
type Operator uint8

const (
	Identity Operator = iota
	Divergence
)

func (op Operator) String() string {
	switch op {
	case Identity:
		return "Identity"
	case Divergence:
		return "Divergence"
	}
	return "UnknownOperator"
}

// OutputLength is the number of values the operator produces per point
func (op Operator) OutputLength(ncomponents int) int {
	switch op {
	case Identity:
		return ncomponents
	case Divergence:
		return 1
	}
	panic(fmt.Errorf("operator %v has no output length", op))
}

// FieldSpec names one (dof vector, operator) pair of the evaluation
type FieldSpec struct {
	Tag string
	Op  Operator
}

// KernelFunc combines the concatenated operator evaluations into the final
// result
type KernelFunc func(result, input []float64, qp *fespace.QueryPoint) error

// CopyKernel passes the flat operator evaluations through unchanged
func CopyKernel(result, input []float64, qp *fespace.QueryPoint) error {
	if len(result) != len(input) {
		return fmt.Errorf("copy kernel: result length %d, input length %d", len(result), len(input))
	}
	copy(result, input)
	return nil
}

// fieldEvaluator is the precomputed per-field state: basis closures and
// scratch buffers for one (space, operator) pair on one geometry
type fieldEvaluator struct {
	block  *fespace.FEVectorBlock
	op     Operator
	basis  element.BasisFunc
	div    element.DivBasisFunc
	coeff  element.CoeffFunc
	B, C   utils.Matrix
	D      []float64
	dofs   []int
	offset int // into the flat kernel input buffer
	nout   int
}

/*
PointEvaluator evaluates a combination of FE fields and operators at
arbitrary points. It is constructed untied to data; Initialize binds it to
one concrete solution and precomputes the per-geometry basis evaluators.
Evaluation is then cheap and stateless except for the last-located-cell
hint, which accelerates sequences of nearby point queries. The hint makes
an evaluator single-writer: use one instance per goroutine (the bound
solution and spaces may be shared read-only)
*/
type PointEvaluator struct {
	specs  []FieldSpec
	kernel KernelFunc

	msh      *mesh.Mesh
	fields   []*fieldEvaluator
	input    []float64
	time     float64
	lastCell int
	bound    bool
}

func NewPointEvaluator(kernel KernelFunc, specs ...FieldSpec) (pe *PointEvaluator) {
	if len(specs) == 0 {
		panic("point evaluator needs at least one field spec")
	}
	if kernel == nil {
		kernel = CopyKernel
	}
	pe = &PointEvaluator{
		specs:  specs,
		kernel: kernel,
	}
	return
}

// Initialize binds the evaluator to one solution: field tags are resolved
// to blocks, and basis evaluators with their scratch buffers are built once
// per field so repeated point evaluations allocate nothing. The optional
// time argument is handed to the kernel through QueryPoint.Time; the dof
// vector itself is a static snapshot, rebind to advance it
func (pe *PointEvaluator) Initialize(solution *fespace.FEVector, timeO ...float64) error {
	var (
		geom   = types.Triangle2D
		offset int
	)
	pe.time = 0
	if len(timeO) != 0 {
		pe.time = timeO[0]
	}
	pe.fields = pe.fields[:0]
	pe.msh = nil
	for _, spec := range pe.specs {
		blk, err := solution.BlockByTag(spec.Tag)
		if err != nil {
			return fmt.Errorf("initialize point evaluator: %w", err)
		}
		sp := blk.Space
		if pe.msh == nil {
			pe.msh = sp.Mesh
		} else if pe.msh != sp.Mesh {
			return fmt.Errorf("field %q lives on a different mesh", spec.Tag)
		}
		var (
			et    = sp.Element
			ncomp = et.NComponents()
			ndofs = et.NDofs(types.OnCells, geom)
			nout  = spec.Op.OutputLength(ncomp)
		)
		fe := &fieldEvaluator{
			block:  blk,
			op:     spec.Op,
			basis:  et.Basis(types.OnCells, geom),
			coeff:  et.Coefficients(geom),
			B:      utils.NewMatrix(ncomp, ndofs),
			C:      utils.NewMatrix(ncomp, ndofs),
			dofs:   make([]int, ndofs),
			offset: offset,
			nout:   nout,
		}
		if spec.Op == Divergence {
			fe.div = et.DivBasis(geom)
			fe.D = make([]float64, ndofs)
		}
		pe.fields = append(pe.fields, fe)
		offset += nout
	}
	pe.input = make([]float64, offset)
	pe.lastCell = 0
	pe.bound = true
	return nil
}

// InputLength is the flat kernel input length, the sum of all operator
// output lengths in spec order
func (pe *PointEvaluator) InputLength() int { return len(pe.input) }

// EvaluateAtReference evaluates at reference coordinates (r,s) of a known
// cell. This is the hot path: basis values are recomputed at the single
// point, combined with the dof values, and handed to the kernel
func (pe *PointEvaluator) EvaluateAtReference(result []float64, r, s float64, cell int) error {
	if !pe.bound {
		return fmt.Errorf("point evaluator not initialized")
	}
	if cell < 0 || cell >= pe.msh.NumCells() {
		return fmt.Errorf("cell %d out of range", cell)
	}
	J, det := pe.msh.Jacobian(cell)
	for _, fe := range pe.fields {
		var (
			sp      = fe.block.Space
			entries = fe.block.View()
			out     = pe.input[fe.offset : fe.offset+fe.nout]
		)
		sp.DM.CellDofs(cell, fe.dofs)
		fe.coeff(fe.C, pe.msh.FaceSigns[cell])
		switch fe.op {
		case Identity:
			fe.basis(fe.B, r, s)
			var ur, us float64
			for m, dof := range fe.dofs {
				val := entries[dof]
				ur += val * fe.C.At(0, m) * fe.B.At(0, m)
				us += val * fe.C.At(1, m) * fe.B.At(1, m)
			}
			// contravariant Piola map to the physical cell
			out[0] = (J[0][0]*ur + J[0][1]*us) / det
			out[1] = (J[1][0]*ur + J[1][1]*us) / det
		case Divergence:
			fe.div(fe.D, r, s)
			out[0] = 0
			for m, dof := range fe.dofs {
				// orientation signs are uniform across components
				out[0] += entries[dof] * fe.C.At(0, m) * fe.D[m]
			}
			out[0] /= det
		}
	}
	x, y := pe.msh.XYAtRef(cell, r, s)
	qp := fespace.QueryPoint{
		X: x, Y: y, R: r, S: s,
		Time:   pe.time,
		Item:   cell,
		Region: pe.msh.CellRegion(cell),
	}
	return pe.kernel(result, pe.input, &qp)
}

// EvaluateAtPoint locates the cell owning a physical point, starting the
// walk from the previously located cell, and evaluates there. A point
// outside the domain is an explicit error, never extrapolated
func (pe *PointEvaluator) EvaluateAtPoint(result []float64, x, y float64) error {
	if !pe.bound {
		return fmt.Errorf("point evaluator not initialized")
	}
	cell, r, s, found := pe.msh.LocateFrom(pe.lastCell, x, y)
	if !found {
		return fmt.Errorf("point (%g,%g) is outside the mesh", x, y)
	}
	pe.lastCell = cell
	return pe.EvaluateAtReference(result, r, s, cell)
}
