// Package spatialhash implements the uniform-grid neighbor index used by the
// fluid core to avoid an O(N^2) neighbor search each step. Particles are
// hashed into cells sized to the smoothing radius, sorted by cell key into
// contiguous buckets, and a per-key offset table lets a query walk only the
// 27-cell neighborhood around a point.
package spatialhash

import "sort"

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y, Z int
}

const (
	prime1 = 73856093
	prime2 = 19349663
	prime3 = 83492791
)

// CellAt returns the grid cell containing the point p for cells of size h.
func CellAt(x, y, z, h float64) Cell {
	return Cell{X: floorDiv(x, h), Y: floorDiv(y, h), Z: floorDiv(z, h)}
}

func floorDiv(v, h float64) int {
	q := v / h
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

// Hash combines a cell coordinate into a 32-bit wraparound hash.
func Hash(c Cell) uint32 {
	return uint32(c.X)*prime1 ^ uint32(c.Y)*prime2 ^ uint32(c.Z)*prime3
}

// KeyFromHash reduces a hash to a bucket key in [0, n).
func KeyFromHash(h uint32, n int) int {
	return int(h % uint32(n))
}

// Index is the reusable spatial hash buffer set. It is rebuilt every step
// from the current predicted positions and consumed by neighbor queries
// during the density/pressure/viscosity passes.
type Index struct {
	h       float64
	n       int
	keys    []int // keys[i]: cell key of the particle now at position i
	order   []int // order[i]: original particle index now stored at position i
	offsets []int // offsets[k]: smallest i with keys[i] == k, or n if none
}

// New creates an Index sized for n particles with cell size h.
func New(n int, h float64) *Index {
	return &Index{
		h:       h,
		n:       n,
		keys:    make([]int, n),
		order:   make([]int, n),
		offsets: make([]int, n),
	}
}

// Resize grows or shrinks the index's buffers to n, discarding contents.
func (idx *Index) Resize(n int) {
	idx.n = n
	idx.keys = make([]int, n)
	idx.order = make([]int, n)
	idx.offsets = make([]int, n)
}

// SetSmoothingRadius updates the cell size used for subsequent builds.
func (idx *Index) SetSmoothingRadius(h float64) {
	idx.h = h
}

// Build computes cell keys for every particle's predicted position, given as
// three parallel slices of length n, and sorts particle order by key. It does
// not move particle data itself; call Order to retrieve the permutation.
func (idx *Index) Build(px, py, pz []float64) {
	n := idx.n
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		c := CellAt(px[i], py[i], pz[i], idx.h)
		idx.keys[i] = KeyFromHash(Hash(c), n)
		idx.order[i] = i
	}
	sort.Slice(idx.order, func(a, b int) bool {
		return idx.keys[idx.order[a]] < idx.keys[idx.order[b]]
	})

	sortedKeys := make([]int, n)
	for pos, orig := range idx.order {
		sortedKeys[pos] = idx.keys[orig]
	}
	copy(idx.keys, sortedKeys)

	for k := 0; k < n; k++ {
		idx.offsets[k] = n
	}
	for i := 0; i < n; i++ {
		k := idx.keys[i]
		if idx.offsets[k] > i {
			idx.offsets[k] = i
		}
	}
}

// Order returns the permutation produced by the most recent Build: Order()[i]
// is the original particle index now occupying cell-sorted position i.
func (idx *Index) Order() []int { return idx.order }

// Keys returns the cell-sorted key array from the most recent Build.
func (idx *Index) Keys() []int { return idx.keys }

// Offsets returns the per-key bucket-start table from the most recent Build.
func (idx *Index) Offsets() []int { return idx.offsets }

// ForEachNeighbor walks every cell-sorted index in the 27-cell neighborhood of
// the point (x, y, z), invoking visit(i) once for each. A bucket whose key is
// shared by several of the 27 cells is walked only once. Candidates are not
// yet distance-filtered; callers must check the actual distance since
// cell-key collisions can admit false positives.
func (idx *Index) ForEachNeighbor(x, y, z float64, visit func(i int)) {
	n := idx.n
	if n == 0 {
		return
	}
	origin := CellAt(x, y, z, idx.h)
	var walked [27]int
	nWalked := 0
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				c := Cell{X: origin.X + dx, Y: origin.Y + dy, Z: origin.Z + dz}
				key := KeyFromHash(Hash(c), n)
				seen := false
				for _, k := range walked[:nWalked] {
					if k == key {
						seen = true
						break
					}
				}
				if seen {
					continue
				}
				walked[nWalked] = key
				nWalked++
				i := idx.offsets[key]
				for i < n && idx.keys[i] == key {
					visit(i)
					i++
				}
			}
		}
	}
}
