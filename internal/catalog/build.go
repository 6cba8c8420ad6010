// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package catalog

// builder lays the tree out in nodes, splitting each subtree on the axis
// with the widest spread at the median of (coordinate, ordinal). That order
// is total, so the tree shape never depends on input permutation quirks.
type builder struct {
	vecs  [][3]float64
	nodes *[]node
}

func (b *builder) build(ids []int32) int32 {
	if len(ids) == 0 {
		return -1
	}
	axis := b.widestAxis(ids)
	m := len(ids) / 2
	b.selectNth(ids, m, axis)

	idx := int32(len(*b.nodes))
	id := ids[m]
	*b.nodes = append(*b.nodes, node{vec: b.vecs[id], ord: id, axis: int8(axis)})

	left := b.build(ids[:m])
	right := b.build(ids[m+1:])
	(*b.nodes)[idx].left = left
	(*b.nodes)[idx].right = right
	return idx
}

func (b *builder) widestAxis(ids []int32) int {
	lo := b.vecs[ids[0]]
	hi := lo
	for _, id := range ids[1:] {
		v := b.vecs[id]
		for a := 0; a < 3; a++ {
			if v[a] < lo[a] {
				lo[a] = v[a]
			}
			if v[a] > hi[a] {
				hi[a] = v[a]
			}
		}
	}
	axis := 0
	for a := 1; a < 3; a++ {
		if hi[a]-lo[a] > hi[axis]-lo[axis] {
			axis = a
		}
	}
	return axis
}

func (b *builder) less(x, y int32, axis int) bool {
	vx, vy := b.vecs[x][axis], b.vecs[y][axis]
	if vx != vy {
		return vx < vy
	}
	return x < y
}

// selectNth partially orders ids so ids[k] is the k-th smallest, everything
// before it smaller and everything after it larger (quickselect).
func (b *builder) selectNth(ids []int32, k, axis int) {
	lo, hi := 0, len(ids)-1
	for lo < hi {
		p := b.partition(ids, lo, hi, axis)
		switch {
		case k == p:
			return
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
}

// partition uses a median-of-three pivot and returns its final position.
func (b *builder) partition(ids []int32, lo, hi, axis int) int {
	mid := lo + (hi-lo)/2
	if b.less(ids[mid], ids[lo], axis) {
		ids[mid], ids[lo] = ids[lo], ids[mid]
	}
	if b.less(ids[hi], ids[lo], axis) {
		ids[hi], ids[lo] = ids[lo], ids[hi]
	}
	if b.less(ids[hi], ids[mid], axis) {
		ids[hi], ids[mid] = ids[mid], ids[hi]
	}
	// median now at mid; park it at hi
	ids[mid], ids[hi] = ids[hi], ids[mid]
	pivot := ids[hi]

	store := lo
	for i := lo; i < hi; i++ {
		if b.less(ids[i], pivot, axis) {
			ids[i], ids[store] = ids[store], ids[i]
			store++
		}
	}
	ids[store], ids[hi] = ids[hi], ids[store]
	return store
}
