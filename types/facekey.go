package types

import (
	"fmt"
	"math"
)

/*
FaceKey is an always positive number that stores a face's vertices as indices
in a way that can be compared. A face between vertices [4] and [0] will always
be stored as [0,4], in the ascending order of the index values
*/
type FaceKey uint64

func NewFaceKey(verts [2]int) (packed FaceKey) {
	// This packs two index coordinates into two 32 bit unsigned integers to act as a hash and an indirect access method
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = FaceKey(i1 + i2<<32)
	return
}

func (fk FaceKey) GetVertices() (verts [2]int) {
	var (
		fkTmp = fk >> 32
	)
	verts[1] = int(fkTmp)
	verts[0] = int(fk - fkTmp*(1<<32))
	return
}
