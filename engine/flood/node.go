package flood

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
)

// ErrInvalidState is returned when a node phase is invoked out of order.
var ErrInvalidState = errors.New("flood: node phase called out of order")

// State tracks a node's progress through the per-frame flood sequence.
type State int

const (
	// StateIdle means the node holds no frame data.
	StateIdle State = iota
	// StateBounds means screen-space bounds have been computed for this frame.
	StateBounds
	// StateGrouped means items have been partitioned into flood groups.
	StateGrouped
)

// SeedDraw carries what the seed pass needs to draw one group member.
type SeedDraw struct {
	// Handle is the flood-init pipeline variant for this mesh. A pending or
	// failed handle makes the member skip silently this frame.
	Handle *renderer.PipelineHandle
	// Mesh holds the mesh's vertex and index buffers.
	Mesh bind_group_provider.BindGroupProvider
	// BindGroups are set on the seed pass in order: the view uniform, the
	// member's instance uniform, and the optional alpha mask group.
	BindGroups []bind_group_provider.BindGroupProvider
}

// Candidate is one outlined mesh submitted to a view's flood node, before its
// screen-space bounds are known.
type Candidate struct {
	// ID identifies the entity, for logging.
	ID uint64
	// Mesh is the model-space bounding box and world transform.
	Mesh MeshBounds
	// Distance orders the outline against other outlines in the view.
	Distance float32
	// Width is the outline width in logical pixels.
	Width float32
	// Colour is the outline colour (RGBA, non-premultiplied).
	Colour [4]float32
	// Draw is the member's seed-pass draw data.
	Draw SeedDraw
}

// Item is a candidate whose screen-space bounds have been resolved.
type Item struct {
	ID       uint64
	Distance float32
	Width    float32
	Colour   [4]float32
	Bounds   common.URect
	Draw     SeedDraw
}

// View carries the per-view parameters the flood node needs for one frame.
type View struct {
	// ClipFromWorld is the view's combined projection matrix (16 elements, column-major).
	ClipFromWorld []float32
	// Viewport is the view's target region in physical pixels.
	Viewport common.Viewport
	// Scale is the physical-to-logical pixel ratio.
	Scale float32
}

// Executor records the GPU work for the three flood pass kinds. The wgpu
// backend is the production implementation; tests substitute a recorder
// that counts invocations.
type Executor interface {
	// SeedInit clears the target to the off-seed sentinel and rasterizes the
	// group's members into it, scissored to the group bounds.
	//
	// Parameters:
	//   - target: the distance texture receiving the seeds
	//   - group: the flood group; only members with ready pipelines are drawn
	//   - viewport: the view's target region
	//
	// Returns:
	//   - error: an error if pass recording fails
	SeedInit(target Texture, group *Group, viewport common.Viewport) error

	// Propagate runs one jump-flood pass at the given sampling stride.
	//
	// Parameters:
	//   - input: the texture holding the previous pass's seeds
	//   - output: the texture receiving the propagated seeds
	//   - stride: the sampling stride in pixels
	//   - bounds: the scissor rectangle
	//
	// Returns:
	//   - error: an error if pass recording fails
	Propagate(input, output Texture, stride uint32, bounds common.URect) error

	// Composite resolves the final distance texture into the view's colour
	// target, blending the outline colour over the scene.
	//
	// Parameters:
	//   - input: the texture holding the final propagated seeds
	//   - group: the flood group supplying width and colour
	//   - bounds: the scissor rectangle
	//
	// Returns:
	//   - error: an error if pass recording fails
	Composite(input Texture, group *Group, bounds common.URect) error
}

// node is the implementation of the Node interface.
type node struct {
	state  State
	view   View
	items  []Item
	groups []Group

	// boundsPool parallelizes per-candidate bounds projection. Workers are
	// reused across frames.
	boundsPool    worker.DynamicWorkerPool
	boundsWorkers int
	taskID        int
}

// Node runs the jump-flood sequence for one view. Each frame moves through
// bounds computation, grouping, and pass execution, then returns to idle:
//
//	Idle -> ComputeBounds -> Group -> Execute -> Idle
//
// A node is owned by a single view and is not safe for concurrent use;
// bounds projection fans out internally to a worker pool.
type Node interface {
	// ComputeBounds projects every candidate's bounding box to screen space
	// and keeps the ones that are visible. Candidates that are off screen or
	// degenerate are dropped for the frame.
	//
	// Parameters:
	//   - view: the view parameters for this frame
	//   - candidates: the view's flood candidates
	//
	// Returns:
	//   - int: the number of candidates kept
	ComputeBounds(view View, candidates []Candidate) int

	// Group partitions the surviving items into flood groups.
	//
	// Returns:
	//   - int: the number of groups
	//   - error: ErrInvalidState if bounds were not computed this frame
	Group() (int, error)

	// Execute records seed, propagation and composite passes for every group,
	// then resets the node to idle. Groups whose members all have pending or
	// failed pipelines are skipped silently.
	//
	// Parameters:
	//   - executor: the pass recorder
	//   - textures: the view's ping-pong texture pair
	//
	// Returns:
	//   - error: ErrInvalidState if grouping did not run, or the first
	//     executor error
	Execute(executor Executor, textures *Textures) error

	// State returns the node's current phase.
	//
	// Returns:
	//   - State: the current state
	State() State
}

var _ Node = &node{}

// NewNode creates a flood node for one view.
//
// Parameters:
//   - options: variadic list of NodeOption functions to configure the node
//
// Returns:
//   - Node: a new node in the idle state
func NewNode(options ...NodeOption) Node {
	n := &node{
		boundsWorkers: 4,
	}
	for _, option := range options {
		option(n)
	}
	n.boundsPool = worker.NewDynamicWorkerPool(n.boundsWorkers, 256, 1*time.Second)
	return n
}

func (n *node) State() State {
	return n.state
}

func (n *node) ComputeBounds(view View, candidates []Candidate) int {
	n.view = view
	n.items = n.items[:0]
	n.groups = n.groups[:0]

	results := make([]Item, len(candidates))
	visible := make([]bool, len(candidates))

	// Each task writes a disjoint slot; the WaitGroup is the frame barrier.
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		idx := i
		id := n.taskID
		n.taskID++
		n.boundsPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()

				c := &candidates[idx]
				border := uint32(math.Ceil(float64(ScaledOffset(c.Width, view.Scale))))
				bounds, ok := c.Mesh.ScreenSpaceBounds(view.ClipFromWorld, view.Viewport, border)
				if !ok {
					return nil, nil
				}
				results[idx] = Item{
					ID:       c.ID,
					Distance: c.Distance,
					Width:    c.Width,
					Colour:   c.Colour,
					Bounds:   bounds,
					Draw:     c.Draw,
				}
				visible[idx] = true
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i := range results {
		if visible[i] {
			n.items = append(n.items, results[i])
		}
	}
	if dropped := len(candidates) - len(n.items); dropped > 0 {
		common.Logger().Debug("flood candidates off screen", "dropped", dropped)
	}

	n.state = StateBounds
	return len(n.items)
}

func (n *node) Group() (int, error) {
	if n.state != StateBounds {
		return 0, fmt.Errorf("%w: Group in state %d", ErrInvalidState, n.state)
	}
	n.groups = GroupItems(n.items)
	n.state = StateGrouped
	return len(n.groups), nil
}

func (n *node) Execute(executor Executor, textures *Textures) error {
	if n.state != StateGrouped {
		return fmt.Errorf("%w: Execute in state %d", ErrInvalidState, n.state)
	}
	// The node always returns to idle, even on error, so the next frame
	// starts clean.
	defer func() {
		n.state = StateIdle
	}()

	for gi := range n.groups {
		g := &n.groups[gi]

		if !groupDrawable(g) {
			common.Logger().Debug("flood group skipped, pipelines not ready", "members", len(g.Items))
			continue
		}

		if err := executor.SeedInit(textures.Output(), g, n.view.Viewport); err != nil {
			return fmt.Errorf("flood seed pass: %w", err)
		}
		textures.Flip()

		for _, stride := range PassStrides(ScaledOffset(g.Width, n.view.Scale)) {
			if err := executor.Propagate(textures.Input(), textures.Output(), stride, g.Bounds); err != nil {
				return fmt.Errorf("flood propagation pass: %w", err)
			}
			textures.Flip()
		}

		if err := executor.Composite(textures.Input(), g, g.Bounds); err != nil {
			return fmt.Errorf("flood composite pass: %w", err)
		}
	}
	return nil
}

// groupDrawable reports whether at least one member's seed pipeline is ready.
func groupDrawable(g *Group) bool {
	for i := range g.Items {
		if h := g.Items[i].Draw.Handle; h != nil {
			if _, ok := h.Pipeline(); ok {
				return true
			}
		}
	}
	return false
}
