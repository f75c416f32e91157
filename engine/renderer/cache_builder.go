package renderer

// SpecializationCacheOption is a functional option for configuring a SpecializationCache.
type SpecializationCacheOption func(*specializationCache)

// WithCompileWorkers sets the number of background workers compiling pipelines.
// Values below 1 are ignored. The default is 2.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - SpecializationCacheOption: the option function
func WithCompileWorkers(workers int) SpecializationCacheOption {
	return func(c *specializationCache) {
		if workers >= 1 {
			c.compileWorkers = workers
		}
	}
}

// WithCompileQueueSize sets the compile task queue capacity.
// Values below 1 are ignored. The default is 64.
//
// Parameters:
//   - size: the queue capacity
//
// Returns:
//   - SpecializationCacheOption: the option function
func WithCompileQueueSize(size int) SpecializationCacheOption {
	return func(c *specializationCache) {
		if size >= 1 {
			c.queueSize = size
		}
	}
}
