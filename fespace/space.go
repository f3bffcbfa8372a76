package fespace

import (
	"fmt"

	"github.com/meshfield/fekit/element"
	"github.com/meshfield/fekit/mesh"
	"github.com/meshfield/fekit/types"
)

// FESpace pairs an element family with a mesh and owns the dof map. The
// element handle is resolved once here and reused for the space's lifetime
type FESpace struct {
	Name    string
	Mesh    *mesh.Mesh
	Element element.Type
	DM      *DofMap
}

func NewFESpace(name string, msh *mesh.Mesh, et element.Type) (sp *FESpace) {
	for _, geom := range msh.UniqueGeometries() {
		if !et.IsDefined(geom) {
			panic(fmt.Errorf("element %s not defined for geometry %v present in mesh",
				et.Name(), geom))
		}
	}
	sp = &FESpace{
		Name:    name,
		Mesh:    msh,
		Element: et,
		DM:      NewDofMap(msh, et),
	}
	fmt.Printf("FESpace %s: %s on %d cells, %d dofs\n",
		name, et.Name(), msh.NumCells(), sp.NDofs())
	return
}

func (sp *FESpace) NDofs() int { return sp.DM.Total() }

/*
DofMap lays global dofs out grouped by moment degree: the k-th moment dof
of face j is k*NF+j, and interior dofs follow all face dofs, nint per cell.
Grouping by moment rather than interleaving per face keeps the quadrature
inner loop of the interpolation engine branch-free per moment type
*/
type DofMap struct {
	NF, NC    int
	nmoments  int // face moments per face
	ninterior int // interior dofs per cell
	ncellloc  int // cell-local dof count
	msh       *mesh.Mesh
}

func NewDofMap(msh *mesh.Mesh, et element.Type) (dm *DofMap) {
	var (
		geom  = types.Triangle2D
		ndofs = et.NDofs(types.OnCells, geom)
	)
	dm = &DofMap{
		NF:        msh.NumFaces(),
		NC:        msh.NumCells(),
		nmoments:  et.NMoments(),
		ninterior: ndofs - et.InteriorOffset(geom),
		ncellloc:  ndofs,
		msh:       msh,
	}
	if et.InteriorOffset(geom) != dm.nmoments*mesh.NFaces {
		panic(fmt.Errorf("dof pattern mismatch for %s: interior offset %d, %d face moments",
			et.Name(), et.InteriorOffset(geom), dm.nmoments))
	}
	return
}

// Total is the global dof count: moments per face times faces, plus
// interior dofs per cell times cells. Shared faces are counted once
func (dm *DofMap) Total() int {
	return dm.nmoments*dm.NF + dm.ninterior*dm.NC
}

// FaceDof returns the global dof of moment k on face f
func (dm *DofMap) FaceDof(f, k int) int {
	if k < 0 || k >= dm.nmoments || f < 0 || f >= dm.NF {
		panic(fmt.Errorf("face dof query out of range: face %d, moment %d", f, k))
	}
	return k*dm.NF + f
}

// InteriorDof returns the global dof of interior function l on cell c
func (dm *DofMap) InteriorDof(c, l int) int {
	if l < 0 || l >= dm.ninterior || c < 0 || c >= dm.NC {
		panic(fmt.Errorf("interior dof query out of range: cell %d, local %d", c, l))
	}
	return dm.nmoments*dm.NF + dm.ninterior*c + l
}

// CellDofs fills dofs with cell c's global dof indices in cell-local basis
// order [moment 0 of each face, moment 1 of each face, ..., interior]
func (dm *DofMap) CellDofs(c int, dofs []int) {
	if len(dofs) != dm.ncellloc {
		panic(fmt.Errorf("cell dof buffer has length %d, want %d", len(dofs), dm.ncellloc))
	}
	var sk int
	for k := 0; k < dm.nmoments; k++ {
		for f := 0; f < mesh.NFaces; f++ {
			dofs[sk] = dm.FaceDof(dm.msh.EToF[c][f], k)
			sk++
		}
	}
	for l := 0; l < dm.ninterior; l++ {
		dofs[sk] = dm.InteriorDof(c, l)
		sk++
	}
}

// FaceDofs fills dofs with face f's global dof indices in moment order
func (dm *DofMap) FaceDofs(f int, dofs []int) {
	if len(dofs) != dm.nmoments {
		panic(fmt.Errorf("face dof buffer has length %d, want %d", len(dofs), dm.nmoments))
	}
	for k := 0; k < dm.nmoments; k++ {
		dofs[k] = dm.FaceDof(f, k)
	}
}

// NCellDofs is the cell-local dof count
func (dm *DofMap) NCellDofs() int { return dm.ncellloc }

// NInterior is the interior dof count per cell
func (dm *DofMap) NInterior() int { return dm.ninterior }

// NMoments is the face moment count per face
func (dm *DofMap) NMoments() int { return dm.nmoments }
