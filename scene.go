package canopy

import (
	"errors"
	"time"
)

// ErrNonFiniteAABB reports geometry with NaN or Inf coordinates (or an
// unnormalized box) rejected at the mutation boundary. A corrupt AABB would
// poison node region logic, so it is never stored.
var ErrNonFiniteAABB = errors.New("canopy: non-finite or unnormalized AABB")

// GeneratedFunc is called once per committed generated element so the host
// application (which owns element content) can record the descriptor under
// the id the scene assigned.
type GeneratedFunc func(id ElementID, desc ElementDesc)

// Scene is the interactive-context owner of the rendering-performance core:
// the spatial index, culler, batcher, metrics collector, and the consuming
// end of the bulk generation pipeline. All Scene methods must be called from
// a single goroutine (the frame loop); the generator goroutine only ever
// talks to it through chunk messages, so the index needs no locking.
type Scene struct {
	index   *Quadtree
	culler  *Culler
	batcher *Batcher
	metrics *MetricsCollector
	gen     *Generator

	// seq assigns each element its canonical z-order key: the order the host
	// added elements in. Moves keep the key; removes drop it.
	seq     map[ElementID]uint64
	nextSeq uint64

	nextID      ElementID
	onGenerated GeneratedFunc
	job         *Job

	visibleBuf []ElementID
	batchBuf   []Batch

	debug bool
}

// NewScene creates a Scene with default configuration.
func NewScene() *Scene {
	return NewSceneWith(DefaultQuadtreeConfig())
}

// NewSceneWith creates a Scene whose index uses the given configuration.
func NewSceneWith(cfg QuadtreeConfig) *Scene {
	return &Scene{
		index:   NewQuadtree(cfg),
		culler:  NewCuller(),
		batcher: NewBatcher(),
		metrics: NewMetricsCollector(),
		gen:     NewGenerator(),
		seq:     make(map[ElementID]uint64),
		nextID:  1,
	}
}

// Index returns the scene's spatial index.
func (s *Scene) Index() *Quadtree { return s.index }

// Culler returns the scene's viewport culler.
func (s *Scene) Culler() *Culler { return s.culler }

// Batcher returns the scene's batcher.
func (s *Scene) Batcher() *Batcher { return s.batcher }

// Metrics returns the scene's metrics collector.
func (s *Scene) Metrics() *MetricsCollector { return s.metrics }

// SetDebugMode enables per-frame timing logs on stderr.
func (s *Scene) SetDebugMode(enabled bool) { s.debug = enabled }

// --- Toggle surface ---

// SetCullingEnabled toggles viewport culling. Disabled means every element
// is treated as visible.
func (s *Scene) SetCullingEnabled(enabled bool) { s.culler.Enabled = enabled }

// SetBatchingEnabled toggles batching. Disabled means one batch per element.
func (s *Scene) SetBatchingEnabled(enabled bool) { s.batcher.Enabled = enabled }

// SetIndexingEnabled toggles the quadtree. Disabled degrades queries to a
// linear scan. Any combination of the three toggles stays correct; only
// performance changes.
func (s *Scene) SetIndexingEnabled(enabled bool) { s.index.SetIndexingEnabled(enabled) }

// --- Mutation API (consumed from the element-management collaborator) ---

// AllocateID returns a fresh element id. Ids handed out here never collide
// with ids the host has already passed to NotifyElementAdded.
func (s *Scene) AllocateID() ElementID {
	id := s.nextID
	s.nextID++
	return id
}

// NotifyElementAdded registers an element's geometry. The element enters the
// canonical z-order at the end (insertion order is paint order). Adding an
// id that already exists relocates it, keeping its z-order slot.
func (s *Scene) NotifyElementAdded(id ElementID, box AABB) error {
	if !box.IsFinite() {
		return ErrNonFiniteAABB
	}
	if _, ok := s.seq[id]; !ok {
		s.seq[id] = s.nextSeq
		s.nextSeq++
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	s.index.Insert(id, box)
	return nil
}

// NotifyElementMoved updates an element's geometry, keeping its z-order.
// Unknown ids are added, entering the z-order at the end.
func (s *Scene) NotifyElementMoved(id ElementID, box AABB) error {
	return s.NotifyElementAdded(id, box)
}

// NotifyElementRemoved drops an element. No-op if absent.
func (s *Scene) NotifyElementRemoved(id ElementID) {
	s.index.Remove(id)
	delete(s.seq, id)
}

// Box returns the registered AABB for id.
func (s *Scene) Box(id ElementID) (AABB, bool) { return s.index.Box(id) }

// Len returns the number of registered elements.
func (s *Scene) Len() int { return s.index.Len() }

func (s *Scene) seqOf(id ElementID) uint64 { return s.seq[id] }

// --- Query API (exposed to the rendering collaborator) ---

// VisibleBatches produces the frame's ordered draw batches for the given
// view and screen size. keyOf supplies each element's compatibility key.
// The returned slice and the batches' ID windows are reused next call.
func (s *Scene) VisibleBatches(view View, screenW, screenH float64, keyOf func(ElementID) BatchKey) []Batch {
	start := time.Now()

	s.visibleBuf = s.culler.Cull(s.index, view, screenW, screenH, s.seqOf, s.visibleBuf[:0])
	cullTime := time.Since(start)

	s.batchBuf = s.batcher.Batch(s.visibleBuf, keyOf, s.batchBuf[:0])
	total := time.Since(start)

	s.metrics.Sample(start, total, s.index.Len(), len(s.visibleBuf))

	if s.debug {
		s.debugLog(frameStats{
			cullTime:     cullTime,
			batchTime:    total - cullTime,
			elementCount: s.index.Len(),
			visibleCount: len(s.visibleBuf),
			batchCount:   len(s.batchBuf),
		})
	}
	return s.batchBuf
}

// MetricsSnapshot returns the current published metrics.
func (s *Scene) MetricsSnapshot() Snapshot { return s.metrics.Snapshot() }

// --- Generation control surface ---

// SetGeneratedHandler registers the callback invoked for each generated
// element as it is committed. The host uses it to record element content
// (style) for the ids the scene assigns.
func (s *Scene) SetGeneratedHandler(fn GeneratedFunc) { s.onGenerated = fn }

// StartGeneration launches a bulk generation job. An active job is
// cancelled (and its stop acknowledged) first.
func (s *Scene) StartGeneration(spec JobSpec) (*Job, error) {
	job, err := s.gen.Start(spec)
	if err != nil {
		return nil, err
	}
	s.job = job
	return job, nil
}

// CancelGeneration cancels the active job, if any, and waits for the
// producer's acknowledgment. Chunks committed before the cancellation stay
// applied; emitted-but-uncommitted chunks are discarded. After this returns
// the index holds exactly the chunks committed so far.
func (s *Scene) CancelGeneration() {
	s.gen.CancelActive()
	s.job = nil
}

// GenerationJob returns the job currently being consumed, or nil.
func (s *Scene) GenerationJob() *Job { return s.job }

// CommitPending drains up to maxChunks queued generation chunks into the
// index through the normal mutation path, then returns. It never blocks:
// call it once per frame with a small budget and input latency stays
// bounded during bulk loads. Returns the number of elements committed.
//
// A chunk that carries a non-finite box is skipped element-wise; generation
// errors leave every previously committed chunk applied (partial generation
// is a valid outcome, not rolled back).
func (s *Scene) CommitPending(maxChunks int) int {
	if s.job == nil {
		return 0
	}
	committed := 0
	for i := 0; i < maxChunks; i++ {
		select {
		case msg := <-s.job.msgs:
			switch {
			case msg.chunk != nil:
				for _, desc := range msg.chunk {
					id := s.AllocateID()
					if err := s.NotifyElementAdded(id, desc.Box); err != nil {
						continue
					}
					if s.onGenerated != nil {
						s.onGenerated(id, desc)
					}
					committed++
				}
			case msg.done, msg.err != nil:
				s.job = nil
				return committed
			}
		default:
			// Producer gone and queue drained: nothing further will arrive.
			if s.job.State() != JobRunning {
				s.job = nil
			}
			return committed
		}
	}
	return committed
}
