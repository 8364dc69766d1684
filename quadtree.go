package canopy

// QuadtreeConfig holds the subdivision tuning parameters. The defaults work
// well for scenes in the tens of thousands of elements; tune Capacity down
// for heavily clustered scenes and MinNodeSize up for coarse elements.
type QuadtreeConfig struct {
	// Capacity is the per-node element count above which a node subdivides.
	Capacity int
	// MaxDepth caps subdivision regardless of count, bounding recursion when
	// many elements share identical or near-identical coordinates.
	MaxDepth int
	// MinNodeSize is the smallest allowed region side. A node whose quadrants
	// would be smaller than this never subdivides.
	MinNodeSize float64
	// Bounds is the initial root region. Inserting outside it grows the root
	// by doubling, so this is a starting hint, not a hard limit.
	Bounds AABB
}

// DefaultQuadtreeConfig returns the default subdivision parameters.
func DefaultQuadtreeConfig() QuadtreeConfig {
	return QuadtreeConfig{
		Capacity:    12,
		MaxDepth:    20,
		MinNodeSize: 1.0,
		Bounds:      AABB{MinX: -4096, MinY: -4096, MaxX: 4096, MaxY: 4096},
	}
}

type qtEntry struct {
	id  ElementID
	box AABB
}

// qtNode is a quadtree node. An element lives in the smallest node whose
// region fully contains its AABB; elements straddling a quadrant boundary
// stay at the parent. children is nil until the node subdivides.
type qtNode struct {
	region   AABB
	depth    int
	elems    []qtEntry
	children *[4]qtNode
}

// Quadtree is a dynamic spatial index over element bounding boxes. It owns
// the id → AABB mapping exclusively; callers reference elements by id only.
//
// The tree is not safe for concurrent use. The intended discipline is a
// single writer (the interactive context) performing all mutations; see
// Scene for the generation pipeline that preserves this.
type Quadtree struct {
	cfg      QuadtreeConfig
	root     qtNode
	boxes    map[ElementID]AABB
	indexing bool
}

// NewQuadtree creates an empty index with the given configuration.
// Zero-value fields in cfg fall back to the defaults.
func NewQuadtree(cfg QuadtreeConfig) *Quadtree {
	def := DefaultQuadtreeConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MinNodeSize <= 0 {
		cfg.MinNodeSize = def.MinNodeSize
	}
	if !cfg.Bounds.IsFinite() || cfg.Bounds.Width() == 0 || cfg.Bounds.Height() == 0 {
		cfg.Bounds = def.Bounds
	}
	return &Quadtree{
		cfg:      cfg,
		root:     qtNode{region: cfg.Bounds},
		boxes:    make(map[ElementID]AABB),
		indexing: true,
	}
}

// Len returns the number of indexed elements.
func (q *Quadtree) Len() int { return len(q.boxes) }

// Box returns the stored AABB for id.
func (q *Quadtree) Box(id ElementID) (AABB, bool) {
	box, ok := q.boxes[id]
	return box, ok
}

// Bounds returns the current root region.
func (q *Quadtree) Bounds() AABB { return q.root.region }

// IndexingEnabled reports whether the tree structure is in use.
func (q *Quadtree) IndexingEnabled() bool { return q.indexing }

// SetIndexingEnabled toggles the tree structure. When disabled, Query
// degrades to a linear scan over the id → AABB map; results are identical,
// only slower. Re-enabling rebuilds the tree from the map.
func (q *Quadtree) SetIndexingEnabled(enabled bool) {
	if enabled == q.indexing {
		return
	}
	q.indexing = enabled
	if enabled {
		q.rebuild()
	} else {
		q.root = qtNode{region: q.root.region}
	}
}

// Insert adds or relocates an element. If id is already present the element
// is removed and re-descended from the root with the new box.
//
// Precondition: box must be finite and normalized. A non-finite box is
// dropped without storing anything; a corrupt AABB would poison region math
// for the whole subtree. Callers that need a signal should validate first
// (Scene.NotifyElementAdded does).
func (q *Quadtree) Insert(id ElementID, box AABB) {
	if !box.IsFinite() {
		return
	}
	if old, ok := q.boxes[id]; ok {
		if q.indexing {
			q.removeEntry(&q.root, id, old)
		}
	}
	q.boxes[id] = box
	if !q.indexing {
		return
	}
	if !q.root.region.ContainsBox(box) {
		q.grow(box)
	}
	q.insertEntry(qtEntry{id: id, box: box})
}

// Remove deletes an element. No-op if id is absent.
func (q *Quadtree) Remove(id ElementID) {
	box, ok := q.boxes[id]
	if !ok {
		return
	}
	delete(q.boxes, id)
	if q.indexing {
		q.removeEntry(&q.root, id, box)
	}
}

// Query appends to out the id of every element whose AABB intersects rng and
// returns the extended slice. Pass a reused buffer to avoid per-frame
// allocation. Result order is unspecified; the culler restores canonical
// order. Never returns false negatives.
func (q *Quadtree) Query(rng AABB, out []ElementID) []ElementID {
	if !q.indexing {
		for id, box := range q.boxes {
			if box.Intersects(rng) {
				out = append(out, id)
			}
		}
		return out
	}
	return q.root.query(rng, out)
}

// IDs appends every indexed element id to out and returns the extended slice.
func (q *Quadtree) IDs(out []ElementID) []ElementID {
	for id := range q.boxes {
		out = append(out, id)
	}
	return out
}

// grow doubles the root region around its center until box fits, then
// rebuilds the tree. Growth is exponential, so repeated far-out inserts
// settle quickly.
func (q *Quadtree) grow(box AABB) {
	region := q.root.region
	for !region.ContainsBox(box) {
		region = region.Expanded(region.Width()/2, region.Height()/2)
	}
	q.root = qtNode{region: region}
	q.rebuild()
}

// rebuild re-inserts every stored element into a fresh tree. The root region
// is first widened to cover any element that has drifted outside it.
func (q *Quadtree) rebuild() {
	region := q.root.region
	for _, box := range q.boxes {
		for !region.ContainsBox(box) {
			region = region.Expanded(region.Width()/2, region.Height()/2)
		}
	}
	q.root = qtNode{region: region}
	for id, box := range q.boxes {
		q.insertEntry(qtEntry{id: id, box: box})
	}
}

// insertEntry descends from the root to the smallest node that fully
// contains the entry's box, stores it there, and subdivides if the node is
// over capacity.
func (q *Quadtree) insertEntry(e qtEntry) {
	n := &q.root
	for n.children != nil {
		qi := childQuadrant(n.region, e.box)
		if qi < 0 {
			break
		}
		n = &n.children[qi]
	}
	n.elems = append(n.elems, e)
	q.maybeSplit(n)
}

// maybeSplit subdivides n into four equal quadrants when it exceeds capacity
// and both the depth cap and the minimum node size floor allow it.
// Straddling elements stay at n; the rest push down one level. A child left
// over capacity splits lazily on its next insert.
func (q *Quadtree) maybeSplit(n *qtNode) {
	if n.children != nil || len(n.elems) <= q.cfg.Capacity || n.depth >= q.cfg.MaxDepth {
		return
	}
	w := n.region.Width() / 2
	h := n.region.Height() / 2
	if min(w, h) < q.cfg.MinNodeSize {
		return
	}

	cx := n.region.MinX + w
	cy := n.region.MinY + h
	n.children = &[4]qtNode{
		{region: AABB{MinX: n.region.MinX, MinY: n.region.MinY, MaxX: cx, MaxY: cy}, depth: n.depth + 1},
		{region: AABB{MinX: cx, MinY: n.region.MinY, MaxX: n.region.MaxX, MaxY: cy}, depth: n.depth + 1},
		{region: AABB{MinX: n.region.MinX, MinY: cy, MaxX: cx, MaxY: n.region.MaxY}, depth: n.depth + 1},
		{region: AABB{MinX: cx, MinY: cy, MaxX: n.region.MaxX, MaxY: n.region.MaxY}, depth: n.depth + 1},
	}

	kept := n.elems[:0]
	for _, e := range n.elems {
		qi := childQuadrant(n.region, e.box)
		if qi < 0 {
			kept = append(kept, e)
		} else {
			c := &n.children[qi]
			c.elems = append(c.elems, e)
		}
	}
	n.elems = kept
}

// removeEntry removes id from the subtree rooted at n, descending along the
// same containment path Insert used. Empty child sets are pruned on the way
// back up. Reports whether the entry was found.
func (q *Quadtree) removeEntry(n *qtNode, id ElementID, box AABB) bool {
	if n.children != nil {
		if qi := childQuadrant(n.region, box); qi >= 0 {
			found := q.removeEntry(&n.children[qi], id, box)
			if found {
				pruneChildren(n)
			}
			return found
		}
	}
	for i := range n.elems {
		if n.elems[i].id == id {
			last := len(n.elems) - 1
			n.elems[i] = n.elems[last]
			n.elems = n.elems[:last]
			return true
		}
	}
	return false
}

// pruneChildren collapses n's children when all four are empty leaves, so
// removals don't leave hollow subtrees behind.
func pruneChildren(n *qtNode) {
	c := n.children
	if c == nil {
		return
	}
	for i := range c {
		if c[i].children != nil || len(c[i].elems) > 0 {
			return
		}
	}
	n.children = nil
}

// childQuadrant returns the index of the quadrant of region that fully
// contains box, or -1 if box straddles a quadrant boundary. Quadrants are
// indexed NW=0, NE=1, SW=2, SE=3.
func childQuadrant(region, box AABB) int {
	cx := region.MinX + region.Width()/2
	cy := region.MinY + region.Height()/2

	var qi int
	switch {
	case box.MaxX <= cx:
		// west
	case box.MinX >= cx:
		qi = 1 // east
	default:
		return -1
	}
	switch {
	case box.MaxY <= cy:
		// north
	case box.MinY >= cy:
		qi += 2 // south
	default:
		return -1
	}
	return qi
}

// query visits n only when its region intersects rng, tests locally stored
// entries, then recurses into children.
func (n *qtNode) query(rng AABB, out []ElementID) []ElementID {
	if !n.region.Intersects(rng) {
		return out
	}
	for i := range n.elems {
		if n.elems[i].box.Intersects(rng) {
			out = append(out, n.elems[i].id)
		}
	}
	if n.children != nil {
		for i := range n.children {
			out = n.children[i].query(rng, out)
		}
	}
	return out
}
