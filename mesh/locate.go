package mesh

const locateTol = 1.e-12

/*
Locate walks the cell adjacency toward the query point: the barycentric
coordinates of the point in the current cell either certify containment or
name the face to cross. The walk starts from the last located cell, which
makes sequences of nearby queries nearly free. A walk that exits through a
boundary falls back to a full scan before reporting failure.

The last-cell hint is per-mesh mutable state with a single-writer contract;
concurrent locates need one Mesh (or an explicit start cell) per goroutine.
*/
func (msh *Mesh) Locate(x, y float64) (cell int, r, s float64, found bool) {
	cell, r, s, found = msh.LocateFrom(msh.lastCell, x, y)
	if found {
		msh.lastCell = cell
	}
	return
}

// LocateFrom walks from an explicit start cell
func (msh *Mesh) LocateFrom(start int, x, y float64) (cell int, r, s float64, found bool) {
	var (
		K = msh.NumCells()
	)
	if start < 0 || start >= K {
		start = 0
	}
	cell = start
	for steps := 0; steps <= K; steps++ {
		r, s = msh.RefAtXY(cell, x, y)
		l1, l2, l3 := 1-r-s, r, s
		if l1 >= -locateTol && l2 >= -locateTol && l3 >= -locateTol {
			found = true
			return
		}
		// cross the face opposite the most negative barycentric:
		// lambda1 -> f2, lambda2 -> f3, lambda3 -> f1
		next := -1
		switch {
		case l1 <= l2 && l1 <= l3:
			next = msh.EToE[cell][1]
		case l2 <= l3:
			next = msh.EToE[cell][2]
		default:
			next = msh.EToE[cell][0]
		}
		if next < 0 {
			break // walked out through the boundary
		}
		cell = next
	}
	return msh.locateScan(x, y)
}

func (msh *Mesh) locateScan(x, y float64) (cell int, r, s float64, found bool) {
	for k := 0; k < msh.NumCells(); k++ {
		r, s = msh.RefAtXY(k, x, y)
		if 1-r-s >= -locateTol && r >= -locateTol && s >= -locateTol {
			return k, r, s, true
		}
	}
	return -1, 0, 0, false
}
