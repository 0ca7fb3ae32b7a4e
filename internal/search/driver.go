package search

import (
	"context"
	"fmt"

	"periodica/internal/life"
	"periodica/internal/oracle"
)

// Status is the driver's state-machine position.
type Status int

const (
	Running Status = iota
	// Found: the target state was dequeued; the result is available.
	Found
	// Exhausted: the frontier emptied without reaching the target. A normal
	// outcome, not an error.
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Progress is a snapshot handed to the progress callback.
type Progress struct {
	Expanded    uint64
	Enqueued    uint64
	FrontierLen int
	LastCost    int64
}

// Config wires a driver. Everything is consumed at construction and never
// re-read mid-search.
type Config struct {
	// Source answers extension queries; its period fixes the search period.
	Source oracle.Source
	// SeedTop and SeedMid are the root state's tuples.
	SeedTop, SeedMid life.RowTuple
	// TargetTop and TargetMid are the terminal state's tuples; nil means
	// all-zero, i.e. full decay into emptiness.
	TargetTop, TargetMid life.RowTuple
	// MaxSteps bounds Run; zero means unbounded. The heuristic has no
	// termination guarantee, so long runs are otherwise stopped externally.
	MaxSteps uint64
	// ReportEvery invokes OnProgress after every N expansions; zero
	// disables reporting.
	ReportEvery uint64
	OnProgress  func(Progress)
}

// Driver orchestrates the best-first search: dequeue the cheapest state, ask
// the oracle for its one-row extensions, enqueue each child at the cost
// -min(extension counts). The negative minimum steers into the
// most-constrained branch first (rarity-first); it is greedy and
// non-admissible, with no optimality guarantee.
type Driver struct {
	source      oracle.Source
	frontier    *Frontier
	target      *State
	status      Status
	found       *State
	expanded    uint64
	enqueued    uint64
	lastCost    int64
	maxSteps    uint64
	reportEvery uint64
	onProgress  func(Progress)
}

// NewDriver validates the seeds against the source's period and seeds the
// frontier with the root state at cost zero.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("source is required")
	}
	period := cfg.Source.Period()

	root, err := NewState(nil, cfg.SeedTop, cfg.SeedMid)
	if err != nil {
		return nil, fmt.Errorf("seed state: %w", err)
	}
	if root.Period() != period {
		return nil, fmt.Errorf("%w: seed has %d phases, source period is %d",
			life.ErrInvalidRows, root.Period(), period)
	}

	targetTop, targetMid := cfg.TargetTop, cfg.TargetMid
	if targetTop == nil && targetMid == nil {
		targetTop = life.ZeroTuple(period)
		targetMid = life.ZeroTuple(period)
	}
	target, err := NewState(nil, targetTop, targetMid)
	if err != nil {
		return nil, fmt.Errorf("target state: %w", err)
	}
	if target.Period() != period {
		return nil, fmt.Errorf("%w: target has %d phases, source period is %d",
			life.ErrInvalidRows, target.Period(), period)
	}

	frontier := NewFrontier()
	frontier.Enqueue(root, 0)

	return &Driver{
		source:      cfg.Source,
		frontier:    frontier,
		target:      target,
		status:      Running,
		maxSteps:    cfg.MaxSteps,
		reportEvery: cfg.ReportEvery,
		onProgress:  cfg.OnProgress,
	}, nil
}

// Status returns the driver's current state.
func (d *Driver) Status() Status {
	return d.status
}

// Expanded returns the number of states expanded so far.
func (d *Driver) Expanded() uint64 {
	return d.expanded
}

// Result returns the discovered pattern, or nil unless the status is Found.
func (d *Driver) Result() *Result {
	if d.found == nil {
		return nil
	}
	return d.found.Result()
}

// Step advances the state machine by one dequeue. Oracle errors are fatal:
// the driver stays Running but the caller is expected to abort the run.
func (d *Driver) Step(ctx context.Context) (Status, error) {
	if d.status != Running {
		return d.status, nil
	}
	if d.frontier.Len() == 0 {
		d.status = Exhausted
		return d.status, nil
	}

	state := d.frontier.Dequeue()
	if state.SameRows(d.target) {
		d.status = Found
		d.found = state
		return d.status, nil
	}

	exts, err := d.source.Extensions(ctx, state.Top(), state.Mid())
	if err != nil {
		return d.status, fmt.Errorf("expand state: %w", err)
	}
	d.expanded++

	for _, ext := range exts {
		child, err := NewState(state, state.Mid(), ext.Bot)
		if err != nil {
			return d.status, fmt.Errorf("extension state: %w", err)
		}
		cost := -minCount(ext.Counts)
		d.frontier.Enqueue(child, cost)
		d.enqueued++
		d.lastCost = cost
	}

	if d.reportEvery > 0 && d.onProgress != nil && d.expanded%d.reportEvery == 0 {
		d.onProgress(Progress{
			Expanded:    d.expanded,
			Enqueued:    d.enqueued,
			FrontierLen: d.frontier.Len(),
			LastCost:    d.lastCost,
		})
	}
	return d.status, nil
}

// Run steps until the search terminates, the context is canceled, or the
// step budget runs out. A Running return status means the budget stopped the
// search, not the search itself.
func (d *Driver) Run(ctx context.Context) (Status, error) {
	for d.status == Running {
		if err := ctx.Err(); err != nil {
			return d.status, err
		}
		if d.maxSteps > 0 && d.expanded >= d.maxSteps {
			return d.status, nil
		}
		if _, err := d.Step(ctx); err != nil {
			return d.status, err
		}
	}
	return d.status, nil
}

func minCount(counts []int64) int64 {
	min := counts[0]
	for _, c := range counts[1:] {
		if c < min {
			min = c
		}
	}
	return min
}
