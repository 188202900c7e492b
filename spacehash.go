package fluid

import (
	"math"
	"slices"
)

type HashValue uint

// SpaceHash is a broadphase for fluid volumes. Each step it buckets the fluids by the grid
// cells their bounding boxes cover, and body fixtures then only test the fluids sharing a cell.
// Pick celldim near the size of a typical body and numCells around ten times the number of
// fluids times their average cell coverage.
type SpaceHash struct {
	numCells int
	celldim  float64

	table   []*spaceHashBin
	handles []*spaceHashHandle

	pooledBins *spaceHashBin

	// query stamp, marks handles already reported for the current query
	stamp uint

	found []int
}

type spaceHashHandle struct {
	volume fluidVolume
	bb     BB
	index  int
	stamp  uint
}

type spaceHashBin struct {
	handle *spaceHashHandle
	next   *spaceHashBin
}

func NewSpaceHash(celldim float64, numCells int) *SpaceHash {
	debugAssert(celldim > 0, "SpaceHash cell size must be positive")
	debugAssert(numCells > 0, "SpaceHash needs at least one cell")
	return &SpaceHash{
		celldim:  celldim,
		numCells: numCells,
		table:    make([]*spaceHashBin, numCells),
		stamp:    1,
	}
}

// Resize changes the cell size and table size. The table is rebuilt on the next step.
func (hash *SpaceHash) Resize(celldim float64, numCells int) {
	debugAssert(celldim > 0, "SpaceHash cell size must be positive")
	debugAssert(numCells > 0, "SpaceHash needs at least one cell")
	hash.clearTable()
	hash.celldim = celldim
	hash.numCells = numCells
	hash.table = make([]*spaceHashBin, numCells)
}

// Count is the number of fluid volumes hashed by the last rebuild.
func (hash *SpaceHash) Count() int {
	return len(hash.handles)
}

func (hash *SpaceHash) rebuild(fluids []fluidVolume) {
	hash.clearTable()

	for len(hash.handles) < len(fluids) {
		hash.handles = append(hash.handles, &spaceHashHandle{})
	}
	hash.handles = hash.handles[:len(fluids)]

	for i, v := range fluids {
		hand := hash.handles[i]
		*hand = spaceHashHandle{volume: v, bb: v.fixture.BB(), index: i}
		hash.hashHandle(hand)
	}
}

func (hash *SpaceHash) cellRange(bb BB) (l, r, b, t int) {
	dim := hash.celldim
	return int(math.Floor(bb.L / dim)), int(math.Floor(bb.R / dim)),
		int(math.Floor(bb.B / dim)), int(math.Floor(bb.T / dim))
}

func (hash *SpaceHash) hashHandle(hand *spaceHashHandle) {
	l, r, b, t := hash.cellRange(hand.bb)

	n := HashValue(hash.numCells)
	for i := l; i <= r; i++ {
		for j := b; j <= t; j++ {
			idx := hashFunc(HashValue(i), HashValue(j), n)
			bin := hash.table[idx]

			if bin.containsHandle(hand) {
				continue
			}

			newBin := hash.getEmptyBin()
			newBin.handle = hand
			newBin.next = bin
			hash.table[idx] = newBin
		}
	}
}

// query calls f once for every hashed fluid whose bounding box intersects bb, in the order
// the fluids were added to the space.
func (hash *SpaceHash) query(bb BB, f func(fluidVolume)) {
	l, r, b, t := hash.cellRange(bb)

	found := hash.found[:0]
	n := HashValue(hash.numCells)
	for i := l; i <= r; i++ {
		for j := b; j <= t; j++ {
			idx := hashFunc(HashValue(i), HashValue(j), n)
			for bin := hash.table[idx]; bin != nil; bin = bin.next {
				hand := bin.handle
				if hand.stamp == hash.stamp {
					continue
				}
				hand.stamp = hash.stamp
				if hand.bb.Intersects(bb) {
					found = append(found, hand.index)
				}
			}
		}
	}
	hash.stamp++

	slices.Sort(found)
	for _, i := range found {
		f(hash.handles[i].volume)
	}
	hash.found = found
}

func (bin *spaceHashBin) containsHandle(hand *spaceHashHandle) bool {
	for item := bin; item != nil; item = item.next {
		if item.handle == hand {
			return true
		}
	}

	return false
}

func hashFunc(x, y, n HashValue) HashValue {
	return (x*1640531513 ^ y*2654435789) % n
}

func (hash *SpaceHash) recycleBin(bin *spaceHashBin) {
	bin.handle = nil
	bin.next = hash.pooledBins
	hash.pooledBins = bin
}

func (hash *SpaceHash) clearTableCell(idx int) {
	bin := hash.table[idx]
	for bin != nil {
		next := bin.next
		hash.recycleBin(bin)
		bin = next
	}

	hash.table[idx] = nil
}

func (hash *SpaceHash) clearTable() {
	for i := range hash.table {
		hash.clearTableCell(i)
	}
}

func (hash *SpaceHash) getEmptyBin() *spaceHashBin {
	bin := hash.pooledBins

	if bin != nil {
		hash.pooledBins = bin.next
		return bin
	}

	// pool is exhausted, make more
	for i := 0; i < 256; i++ {
		hash.recycleBin(&spaceHashBin{})
	}
	return &spaceHashBin{}
}
