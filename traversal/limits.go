package traversal

// Default budgets for traversal calls. Callers pass NoLimit to disable a
// bound explicitly; the defaults keep unbounded requests from melting the
// backend.
const (
	DefaultCapacity      int64 = 10_000_000
	DefaultElementsLimit int64 = 10_000_000
	DefaultPathsLimit    int64 = 10
	DefaultLimit         int64 = 100
	DefaultDegree        int64 = 10_000
	DefaultSkipDegree    int64 = 100_000
	DefaultSample        int64 = 100
	DefaultMaxDepth      int   = 50

	DefaultWeight float64 = 0

	// Empirical value of scan limit, with which results can be returned in 3s.
	DefaultPageLimit int64 = 100_000

	NoLimit int64 = -1
)
