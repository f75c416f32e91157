package flood

// NodeOption is a functional option for configuring a flood Node.
type NodeOption func(*node)

// WithBoundsWorkers sets the number of workers projecting candidate bounds.
// Values below 1 are ignored. The default is 4.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - NodeOption: the option function
func WithBoundsWorkers(workers int) NodeOption {
	return func(n *node) {
		if workers >= 1 {
			n.boundsWorkers = workers
		}
	}
}
