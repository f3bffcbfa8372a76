package mesh

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/meshfield/fekit/types"
)

const NFaces = 3 // faces per triangle cell

// Face is one unique mesh face (an edge of the triangulation). Verts are
// stored in the owning cell's traversal order, which fixes the global
// parameterization t in [0,1] and the global normal direction
type Face struct {
	Verts  [2]int
	Cells  [2]int // owner, neighbor (-1 on the boundary)
	Normal [2]float64
	Volume float64 // face length
	Region int
}

type Mesh struct {
	VX, VY []float64
	EToV   [][3]int

	CellRegions []int

	Faces     []Face
	EToF      [][3]int     // cell -> global face ids, local face order
	EToE      [][3]int     // neighbor across each local face, -1 on boundary
	FaceSigns [][3]float64 // +1 when the global face normal is outward from the cell
	Volumes   []float64    // cell areas

	faceIndex map[types.FaceKey]int

	lastCell int // walking locator hint
}

// localFaceVerts returns the two cell-local vertex positions of local face f:
// f1=(v1,v2), f2=(v2,v3), f3=(v3,v1)
func localFaceVerts(f int) (a, b int) {
	a = f
	b = (f + 1) % 3
	return
}

// New builds a triangle mesh from vertex coordinates and cell-vertex
// connectivity. Cells are reoriented counterclockwise when needed. Face
// connectivity is derived from the sparse face-to-vertex incidence product
func New(VX, VY []float64, EToV [][3]int) (msh *Mesh) {
	var (
		K  = len(EToV)
		Nv = len(VX)
	)
	if len(VY) != Nv {
		panic(fmt.Errorf("vertex coordinate length mismatch: %d vs %d", Nv, len(VY)))
	}
	if K == 0 {
		panic("mesh has no cells")
	}
	msh = &Mesh{
		VX:          VX,
		VY:          VY,
		EToV:        make([][3]int, K),
		CellRegions: make([]int, K),
		EToF:        make([][3]int, K),
		EToE:        make([][3]int, K),
		FaceSigns:   make([][3]float64, K),
		Volumes:     make([]float64, K),
		faceIndex:   make(map[types.FaceKey]int),
		lastCell:    0,
	}
	copy(msh.EToV, EToV)
	for k := 0; k < K; k++ {
		msh.Volumes[k] = msh.signedArea(k)
		if msh.Volumes[k] < 0 {
			msh.EToV[k][1], msh.EToV[k][2] = msh.EToV[k][2], msh.EToV[k][1]
			msh.Volumes[k] = -msh.Volumes[k]
		}
		if msh.Volumes[k] == 0 {
			panic(fmt.Errorf("degenerate cell %d has zero area", k))
		}
	}
	msh.connect()
	msh.buildFaces()
	return
}

func (msh *Mesh) signedArea(k int) float64 {
	var (
		v = msh.EToV[k]
	)
	x1, y1 := msh.VX[v[0]], msh.VY[v[0]]
	x2, y2 := msh.VX[v[1]], msh.VY[v[1]]
	x3, y3 := msh.VX[v[2]], msh.VY[v[2]]
	return 0.5 * ((x2-x1)*(y3-y1) - (x3-x1)*(y2-y1))
}

// connect derives EToE by multiplying the face-to-vertex incidence matrix
// with its transpose: an off-diagonal entry of 2 marks two local faces that
// share both vertices
func (msh *Mesh) connect() {
	var (
		K          = len(msh.EToV)
		Nv         = len(msh.VX)
		TotalFaces = NFaces * K
	)
	SpFToVTmp := sparse.NewDOK(TotalFaces, Nv)
	var sk int
	for k := 0; k < K; k++ {
		for f := 0; f < NFaces; f++ {
			a, b := localFaceVerts(f)
			SpFToVTmp.Set(sk, msh.EToV[k][a], 1)
			SpFToVTmp.Set(sk, msh.EToV[k][b], 1)
			sk++
		}
	}
	for k := 0; k < K; k++ {
		msh.EToE[k] = [3]int{-1, -1, -1}
	}
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	SpFToV := SpFToVTmp.ToCSR()
	SpFToF.Mul(SpFToV, SpFToV.T())
	SpFToF.DoNonZero(func(i, j int, v float64) {
		if i != j && v == 2 {
			k1, f1 := i/NFaces, i%NFaces
			k2 := j / NFaces
			msh.EToE[k1][f1] = k2
		}
	})
}

// buildFaces enumerates unique faces in cell order, assigning each face's
// owner, orientation signs, normal and length
func (msh *Mesh) buildFaces() {
	var (
		K = len(msh.EToV)
	)
	for k := 0; k < K; k++ {
		for f := 0; f < NFaces; f++ {
			a, b := localFaceVerts(f)
			v1, v2 := msh.EToV[k][a], msh.EToV[k][b]
			key := types.NewFaceKey([2]int{v1, v2})
			if fid, ok := msh.faceIndex[key]; ok {
				// second visit: this cell is the neighbor
				msh.Faces[fid].Cells[1] = k
				msh.EToF[k][f] = fid
				msh.FaceSigns[k][f] = -1
				continue
			}
			dx, dy := msh.VX[v2]-msh.VX[v1], msh.VY[v2]-msh.VY[v1]
			vol := math.Hypot(dx, dy)
			fid := len(msh.Faces)
			msh.Faces = append(msh.Faces, Face{
				Verts:  [2]int{v1, v2},
				Cells:  [2]int{k, -1},
				Normal: [2]float64{dy / vol, -dx / vol}, // outward for a CCW cell
				Volume: vol,
			})
			msh.faceIndex[key] = fid
			msh.EToF[k][f] = fid
			msh.FaceSigns[k][f] = 1
		}
	}
}

func (msh *Mesh) NumCells() int { return len(msh.EToV) }
func (msh *Mesh) NumFaces() int { return len(msh.Faces) }

// CellGeometry reports the reference geometry of cell k; this mesh carries
// triangles only
func (msh *Mesh) CellGeometry(k int) types.GeometryType { return types.Triangle2D }

// UniqueGeometries enumerates the distinct cell geometries present
func (msh *Mesh) UniqueGeometries() []types.GeometryType {
	return []types.GeometryType{types.Triangle2D}
}

func (msh *Mesh) CellVolume(k int) float64 { return msh.Volumes[k] }

func (msh *Mesh) CellRegion(k int) int { return msh.CellRegions[k] }

func (msh *Mesh) FaceRegion(f int) int { return msh.Faces[f].Region }

// FaceForVertices looks a face up by its two global vertices, in any order
func (msh *Mesh) FaceForVertices(v1, v2 int) (fid int, ok bool) {
	fid, ok = msh.faceIndex[types.NewFaceKey([2]int{v1, v2})]
	return
}

// BoundaryFaces lists the ids of faces with no neighbor cell
func (msh *Mesh) BoundaryFaces() (bf []int) {
	for fid, face := range msh.Faces {
		if face.Cells[1] == -1 {
			bf = append(bf, fid)
		}
	}
	return
}

// FacePoint maps the face parameter t in [0,1] to physical coordinates
func (msh *Mesh) FacePoint(fid int, t float64) (x, y float64) {
	var (
		face = msh.Faces[fid]
	)
	x1, y1 := msh.VX[face.Verts[0]], msh.VY[face.Verts[0]]
	x2, y2 := msh.VX[face.Verts[1]], msh.VY[face.Verts[1]]
	x = x1 + t*(x2-x1)
	y = y1 + t*(y2-y1)
	return
}
