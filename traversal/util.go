package traversal

import (
	"sort"

	"github.com/vanshika/graphwalk/graph"
)

// Weighted pairs a vertex with a measure produced by a ranking traversal.
type Weighted struct {
	Key    graph.ID
	Weight float64
}

// TopN keeps the first limit entries, optionally sorting by descending
// weight first. The sort is stable so equal weights keep their incoming
// order.
func TopN(values []Weighted, sorted bool, limit int64) []Weighted {
	result := append([]Weighted(nil), values...)
	if sorted {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Weight > result[j].Weight
		})
	}
	if limit == NoLimit || int64(len(result)) <= limit {
		return result
	}
	return result[:limit]
}
