package fespace

import (
	"fmt"
	"math"
)

/*
FEVector is a single owned flat buffer partitioned into named, taggable
contiguous blocks, one per FE space instance. Blocks are non-owning views:
writes through a block are visible through the parent and vice versa.
Blocks partition the buffer exactly, in definition order, no gaps or
overlaps. Appending a block grows the shared buffer and preserves existing
block identities
*/
type FEVector struct {
	entries []float64
	blocks  []*FEVectorBlock
}

type FEVectorBlock struct {
	Name   string
	Tag    string
	Space  *FESpace
	offset int
	end    int
	parent *FEVector
}

type BlockSpec struct {
	Name  string
	Tag   string
	Space *FESpace
}

func NewFEVector(specs ...BlockSpec) (v *FEVector) {
	v = &FEVector{}
	for _, spec := range specs {
		v.Append(spec)
	}
	return
}

// Append adds a block for one FE space, growing the shared buffer. The new
// block view is returned
func (v *FEVector) Append(spec BlockSpec) (b *FEVectorBlock) {
	if spec.Space == nil {
		panic("FEVector block needs an FE space")
	}
	var (
		offset = len(v.entries)
		n      = spec.Space.NDofs()
	)
	v.entries = append(v.entries, make([]float64, n)...)
	b = &FEVectorBlock{
		Name:   spec.Name,
		Tag:    spec.Tag,
		Space:  spec.Space,
		offset: offset,
		end:    offset + n,
		parent: v,
	}
	v.blocks = append(v.blocks, b)
	return
}

func (v *FEVector) Len() int       { return len(v.entries) }
func (v *FEVector) NumBlocks() int { return len(v.blocks) }

// Entries exposes the shared buffer
func (v *FEVector) Entries() []float64 { return v.entries }

// Block returns a block by position
func (v *FEVector) Block(i int) *FEVectorBlock {
	if i < 0 || i >= len(v.blocks) {
		panic(fmt.Errorf("block index %d out of range, have %d blocks", i, len(v.blocks)))
	}
	return v.blocks[i]
}

// BlockByTag returns the first block carrying the tag
func (v *FEVector) BlockByTag(tag string) (b *FEVectorBlock, err error) {
	for _, blk := range v.blocks {
		if blk.Tag == tag {
			return blk, nil
		}
	}
	err = fmt.Errorf("no block tagged %q", tag)
	return
}

// CheckPartition verifies the block partition invariant
func (v *FEVector) CheckPartition() error {
	var pos int
	for i, b := range v.blocks {
		if b.offset != pos {
			return fmt.Errorf("block %d starts at %d, want %d", i, b.offset, pos)
		}
		if b.end < b.offset {
			return fmt.Errorf("block %d has negative extent", i)
		}
		pos = b.end
	}
	if pos != len(v.entries) {
		return fmt.Errorf("blocks cover %d entries, buffer has %d", pos, len(v.entries))
	}
	return nil
}

func (b *FEVectorBlock) Len() int    { return b.end - b.offset }
func (b *FEVectorBlock) Offset() int { return b.offset }
func (b *FEVectorBlock) End() int    { return b.end }

func (b *FEVectorBlock) checkIndex(i int) {
	if i < 0 || i >= b.Len() {
		panic(fmt.Errorf("index %d out of range for block %q of length %d", i, b.Name, b.Len()))
	}
}

func (b *FEVectorBlock) At(i int) float64 {
	b.checkIndex(i)
	return b.parent.entries[b.offset+i]
}

func (b *FEVectorBlock) Set(i int, val float64) {
	b.checkIndex(i)
	b.parent.entries[b.offset+i] = val
}

// View returns the block's live window into the shared buffer
func (b *FEVectorBlock) View() []float64 {
	return b.parent.entries[b.offset:b.end:b.end]
}

func (b *FEVectorBlock) Fill(val float64) {
	data := b.View()
	for i := range data {
		data[i] = val
	}
}

// Axpy accumulates factor times another block into this one
func (b *FEVectorBlock) Axpy(factor float64, a *FEVectorBlock) {
	b.AxpyRaw(factor, a.View())
}

// AxpyRaw accumulates factor times a raw array into this block
func (b *FEVectorBlock) AxpyRaw(factor float64, a []float64) {
	data := b.View()
	if len(a) != len(data) {
		panic(fmt.Errorf("axpy length mismatch: block %d, source %d", len(data), len(a)))
	}
	for i, val := range a {
		data[i] += factor * val
	}
}

func (b *FEVectorBlock) Dot(a *FEVectorBlock) (d float64) {
	var (
		x = b.View()
		y = a.View()
	)
	if len(x) != len(y) {
		panic(fmt.Errorf("dot length mismatch: %d vs %d", len(x), len(y)))
	}
	for i, val := range x {
		d += val * y[i]
	}
	return
}

// Norm computes the p-norm of the block, p defaulting to 2
func (b *FEVectorBlock) Norm(pO ...float64) (n float64) {
	p := 2.
	if len(pO) != 0 {
		p = pO[0]
	}
	for _, val := range b.View() {
		n += math.Pow(math.Abs(val), p)
	}
	n = math.Pow(n, 1/p)
	return
}
