package panel

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jask/friendsearch/internal/appearance"
	"github.com/jask/friendsearch/internal/search"
)

// Surface is where the renderer paints.
type Surface interface {
	Paint(i int, t Tile) bool
	Usable() int
	Closed() bool
}

// Validity reports whether a render generation is still wanted.
type Validity interface {
	IsCurrent(gen uint64) bool
}

// Stage is the state of a render job.
type Stage int32

const (
	StagePlaceholder Stage = iota
	StageRendered
	StageAborted
)

func (s Stage) String() string {
	switch s {
	case StagePlaceholder:
		return "placeholder"
	case StageRendered:
		return "rendered"
	case StageAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Job tracks one render. It starts in StagePlaceholder and moves once to
// StageRendered or StageAborted.
type Job struct {
	stage    atomic.Int32
	shown    int
	rendered atomic.Int32
	done     chan struct{}
}

func (j *Job) Stage() Stage { return Stage(j.stage.Load()) }

// Shown is the number of result slots the job paints.
func (j *Job) Shown() int { return j.shown }

// Rendered is the number of slots the detail stage has written so far.
func (j *Job) Rendered() int { return int(j.rendered.Load()) }

// Done is closed when the detail stage finishes or aborts.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job is done or ctx ends.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Job) finish(s Stage) {
	j.stage.Store(int32(s))
	close(j.done)
}

// Renderer paints results in two stages: pending tiles synchronously, then
// full tiles from a scheduled task.
type Renderer struct {
	appearance appearance.Resolver
	scheduler  Scheduler
	log        *zap.Logger
}

func NewRenderer(res appearance.Resolver, sched Scheduler, log *zap.Logger) *Renderer {
	if res == nil {
		res = appearance.Local{}
	}
	if sched == nil {
		sched = &GoScheduler{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{appearance: res, scheduler: sched, log: log}
}

// Render paints a pending tile for each shown entity, then schedules the
// detail stage and returns without waiting for it. The detail stage stops
// as soon as gen is no longer current, the surface closes or ctx ends.
func (r *Renderer) Render(ctx context.Context, s Surface, v Validity, gen uint64, entities []search.Entity) *Job {
	shown := min(len(entities), s.Usable())
	if shown < 0 {
		shown = 0
	}
	job := &Job{shown: shown, done: make(chan struct{})}

	for i := 0; i < shown; i++ {
		s.Paint(i, PendingTile{Index: i, Label: entities[i].Label()})
	}

	r.scheduler.Schedule(func() {
		r.detail(ctx, s, v, gen, entities[:shown], job)
	})
	return job
}

func (r *Renderer) detail(ctx context.Context, s Surface, v Validity, gen uint64, entities []search.Entity, job *Job) {
	stale := func() bool {
		return ctx.Err() != nil || s.Closed() || !v.IsCurrent(gen)
	}
	abort := func(i int) {
		r.log.Debug("render superseded",
			zap.Uint64("generation", gen),
			zap.Int("rendered", i),
			zap.Int("shown", len(entities)))
		job.finish(StageAborted)
	}
	for i, e := range entities {
		if stale() {
			abort(i)
			return
		}
		a, err := r.appearance.Resolve(ctx, e)
		// The lookup may block; the render can go stale meanwhile.
		if stale() {
			abort(i)
			return
		}
		if err != nil {
			r.log.Warn("appearance lookup failed",
				zap.String("entity", e.ID.String()),
				zap.Error(err))
			s.Paint(i, PendingTile{Index: i, Label: e.Label()})
		} else {
			s.Paint(i, EntityTile{Index: i, Entity: e, Appearance: a})
		}
		job.rendered.Add(1)
	}
	job.finish(StageRendered)
}
