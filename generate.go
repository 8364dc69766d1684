package canopy

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
)

// LayoutKind selects the placement strategy for a generation job.
type LayoutKind uint8

const (
	LayoutScatter     LayoutKind = iota // uniform-random scatter within Bounds
	LayoutClustered                     // k cluster centers with local scatter
	LayoutGrid                          // regular lattice with fixed spacing
	LayoutMultiRegion                   // scatter across several disjoint bounds
)

// DefaultChunkSize is the number of element descriptors per streamed chunk.
const DefaultChunkSize = 256

// RegionSpec describes where and how a layout places elements. Only the
// fields relevant to the chosen layout are read.
type RegionSpec struct {
	// Bounds is the placement area for scatter, clustered, and grid layouts.
	Bounds AABB
	// Regions is the set of disjoint areas for LayoutMultiRegion.
	Regions []AABB
	// Clusters is the number of cluster centers for LayoutClustered.
	Clusters int
	// ClusterRadius is the local scatter radius around each center.
	ClusterRadius float64
	// Spacing is the lattice step for LayoutGrid.
	Spacing float64
	// MinSize and MaxSize bound each element's edge length. Zero values fall
	// back to 8 and 32.
	MinSize, MaxSize float64
}

// JobSpec fully determines a generation job. Identical specs produce the
// same element descriptors in the same chunk boundaries, which is what makes
// stress scenarios reproducible.
type JobSpec struct {
	Layout    LayoutKind
	Count     int
	Region    RegionSpec
	Seed      uint64
	ChunkSize int // 0 = DefaultChunkSize
}

// ElementDesc is one synthesized element: its world AABB plus the style
// class the host can feed into batching. The generator never touches the
// index; descriptors flow to the interactive context, which commits them
// through the normal mutation path.
type ElementDesc struct {
	Box   AABB
	Style uint16
}

// JobState is the lifecycle state of a generation job.
type JobState int32

const (
	JobRunning   JobState = iota // producing chunks
	JobDone                      // all chunks emitted
	JobCancelled                 // stopped on cancellation; emitted chunks stand
	JobFailed                    // terminal error; emitted chunks stand
)

// genMsg is one message on a job's stream. Exactly one of the three variants
// is set: a data chunk, completion, or failure.
type genMsg struct {
	chunk []ElementDesc
	done  bool
	err   error
}

// Job is a handle to one in-flight generation. Chunks are consumed by the
// interactive context (see Scene.CommitPending). Cancellation is cooperative:
// the producer checks between chunks, so chunks already emitted may still be
// committed after Cancel returns.
type Job struct {
	spec     JobSpec
	msgs     chan genMsg
	cancel   context.CancelFunc
	finished chan struct{}
	state    atomic.Int32
	err      error // set before finished closes
}

// State returns the job's current lifecycle state.
func (j *Job) State() JobState { return JobState(j.state.Load()) }

// Err returns the terminal error for a failed job, nil otherwise.
// Only meaningful once State reports JobFailed.
func (j *Job) Err() error {
	select {
	case <-j.finished:
		return j.err
	default:
		return nil
	}
}

// Cancel requests cooperative cancellation. It does not wait; use Wait to
// block until the producer has acknowledged and stopped emitting.
func (j *Job) Cancel() { j.cancel() }

// Wait blocks until the producer goroutine has exited. After Wait returns no
// further chunks will be emitted.
func (j *Job) Wait() { <-j.finished }

// Spec returns the job's originating spec.
func (j *Job) Spec() JobSpec { return j.spec }

// Generator synthesizes large element sets off the interactive thread and
// streams them in bounded chunks. One job may be active at a time; starting
// a new job cancels the prior one and waits for its acknowledgment so two
// jobs never interleave writes.
type Generator struct {
	active *Job
}

// NewGenerator creates an idle Generator.
func NewGenerator() *Generator { return &Generator{} }

// ErrInvalidJobSpec reports a spec the layouts cannot satisfy.
var ErrInvalidJobSpec = errors.New("canopy: invalid generation job spec")

// validateSpec rejects specs the layout functions cannot place, so failures
// surface before a goroutine is spawned.
func validateSpec(spec JobSpec) error {
	if spec.Count <= 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidJobSpec, spec.Count)
	}
	switch spec.Layout {
	case LayoutScatter, LayoutClustered, LayoutGrid:
		if !spec.Region.Bounds.IsFinite() {
			return fmt.Errorf("%w: non-finite bounds", ErrInvalidJobSpec)
		}
		if spec.Layout == LayoutGrid && spec.Region.Spacing <= 0 {
			return fmt.Errorf("%w: grid spacing %g", ErrInvalidJobSpec, spec.Region.Spacing)
		}
		if spec.Layout == LayoutClustered && spec.Region.Clusters <= 0 {
			return fmt.Errorf("%w: cluster count %d", ErrInvalidJobSpec, spec.Region.Clusters)
		}
	case LayoutMultiRegion:
		if len(spec.Region.Regions) == 0 {
			return fmt.Errorf("%w: no regions", ErrInvalidJobSpec)
		}
		for _, r := range spec.Region.Regions {
			if !r.IsFinite() {
				return fmt.Errorf("%w: non-finite region", ErrInvalidJobSpec)
			}
		}
	default:
		return fmt.Errorf("%w: unknown layout %d", ErrInvalidJobSpec, spec.Layout)
	}
	return nil
}

// Start launches a job. If a job is already active it is cancelled first and
// Start blocks until that job's producer acknowledges, preserving the
// single-active-job invariant.
func (g *Generator) Start(spec JobSpec) (*Job, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	if spec.ChunkSize <= 0 {
		spec.ChunkSize = DefaultChunkSize
	}

	if g.active != nil {
		g.active.cancel()
		g.active.Wait()
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		spec:   spec,
		msgs:   make(chan genMsg, 4),
		cancel: cancel,

		finished: make(chan struct{}),
	}
	g.active = job
	go job.run(ctx)
	return job, nil
}

// Active returns the current job, or nil when idle.
func (g *Generator) Active() *Job { return g.active }

// CancelActive cancels the current job, if any, and waits for its
// acknowledgment.
func (g *Generator) CancelActive() {
	if g.active == nil {
		return
	}
	g.active.cancel()
	g.active.Wait()
	g.active = nil
}

// run is the producer loop. It emits chunks in order on a bounded channel,
// checking the cancellation flag between chunks, then emits exactly one
// terminal message (done or error). The channel bound is the backpressure:
// a slow consumer stalls the producer instead of growing a queue.
func (j *Job) run(ctx context.Context) {
	defer close(j.finished)

	layout := newLayout(j.spec)

	remaining := j.spec.Count
	for remaining > 0 {
		n := min(remaining, j.spec.ChunkSize)
		chunk, err := layout.next(n)
		if err != nil {
			j.state.Store(int32(JobFailed))
			j.err = err
			select {
			case j.msgs <- genMsg{err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case j.msgs <- genMsg{chunk: chunk}:
			remaining -= n
		case <-ctx.Done():
			j.state.Store(int32(JobCancelled))
			return
		}
		if ctx.Err() != nil {
			j.state.Store(int32(JobCancelled))
			return
		}
	}

	j.state.Store(int32(JobDone))
	select {
	case j.msgs <- genMsg{done: true}:
	case <-ctx.Done():
	}
}

// layout lazily produces element descriptors. All randomness flows from a
// single PCG stream seeded by the job, so the full sequence (and therefore
// every chunk boundary) is reproducible.
type layout struct {
	spec    JobSpec
	rng     *rand.Rand
	centers []struct{ x, y float64 } // clustered layout only
	gridIdx int                      // grid layout cursor
	gridCol int                      // columns per row, >= 1
}

func newLayout(spec JobSpec) *layout {
	l := &layout{
		spec: spec,
		rng:  rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15)),
	}
	switch spec.Layout {
	case LayoutClustered:
		b := spec.Region.Bounds
		l.centers = make([]struct{ x, y float64 }, spec.Region.Clusters)
		for i := range l.centers {
			l.centers[i].x = b.MinX + l.rng.Float64()*b.Width()
			l.centers[i].y = b.MinY + l.rng.Float64()*b.Height()
		}
	case LayoutGrid:
		cols := int(spec.Region.Bounds.Width()/spec.Region.Spacing) + 1
		if cols < 1 {
			cols = 1
		}
		l.gridCol = cols
	}
	return l
}

// next produces the following n descriptors of the sequence.
func (l *layout) next(n int) ([]ElementDesc, error) {
	out := make([]ElementDesc, 0, n)
	for i := 0; i < n; i++ {
		var x, y float64
		switch l.spec.Layout {
		case LayoutScatter:
			b := l.spec.Region.Bounds
			x = b.MinX + l.rng.Float64()*b.Width()
			y = b.MinY + l.rng.Float64()*b.Height()
		case LayoutClustered:
			c := l.centers[l.rng.IntN(len(l.centers))]
			r := l.spec.Region.ClusterRadius
			if r <= 0 {
				r = l.spec.Region.Bounds.Width() * 0.05
			}
			x = c.x + (l.rng.Float64()*2-1)*r
			y = c.y + (l.rng.Float64()*2-1)*r
		case LayoutGrid:
			b := l.spec.Region.Bounds
			row := l.gridIdx / l.gridCol
			col := l.gridIdx % l.gridCol
			l.gridIdx++
			x = b.MinX + float64(col)*l.spec.Region.Spacing
			y = b.MinY + float64(row)*l.spec.Region.Spacing
		case LayoutMultiRegion:
			b := l.spec.Region.Regions[l.rng.IntN(len(l.spec.Region.Regions))]
			x = b.MinX + l.rng.Float64()*b.Width()
			y = b.MinY + l.rng.Float64()*b.Height()
		}

		w, h := l.elementSize()
		desc := ElementDesc{
			Box:   AABB{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h},
			Style: uint16(l.rng.IntN(styleClasses)),
		}
		if !desc.Box.IsFinite() {
			return nil, fmt.Errorf("canopy: layout produced non-finite box")
		}
		out = append(out, desc)
	}
	return out, nil
}

// styleClasses is the number of synthetic style classes assigned to
// generated elements, giving batching something to group by.
const styleClasses = 4

func (l *layout) elementSize() (w, h float64) {
	lo, hi := l.spec.Region.MinSize, l.spec.Region.MaxSize
	if lo <= 0 {
		lo = 8
	}
	if hi < lo {
		hi = 32
		if hi < lo {
			hi = lo
		}
	}
	w = lo + l.rng.Float64()*(hi-lo)
	h = lo + l.rng.Float64()*(hi-lo)
	return w, h
}
