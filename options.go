package metrictree

const (
	// MinSphereSize is the smallest accepted MaxSphereSize.
	MinSphereSize = 4

	// DefaultMaxSphereSize is the leaf capacity used when none is configured.
	DefaultMaxSphereSize = 32

	// DefaultParallelRebuildThreshold is the entry count above which Rebalance
	// and BalancedCopy build sibling subtrees concurrently.
	DefaultParallelRebuildThreshold = 4096
)

// Options contains configuration options for a Tree.
type Options struct {
	// MaxSphereSize is the maximum number of entries a leaf may hold before it
	// is split. Must be >= MinSphereSize.
	MaxSphereSize int

	// ParallelRebuildThreshold is the minimum number of entries in a subtree
	// for Rebalance/BalancedCopy to build its children on separate goroutines.
	// The distance function must be safe for concurrent use (it is required to
	// be a stateless pure function). Set to 0 to restore the default; a
	// negative value disables parallel rebuilds entirely.
	ParallelRebuildThreshold int
}

// DefaultOptions contains the default configuration options for a Tree.
var DefaultOptions = Options{
	MaxSphereSize:            DefaultMaxSphereSize,
	ParallelRebuildThreshold: DefaultParallelRebuildThreshold,
}
