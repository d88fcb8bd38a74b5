package qdrant

import (
	qdrant "github.com/qdrant/go-client/qdrant"
)

// defaultBatchSize is the number of points per upsert request.
const defaultBatchSize = 200

// vectorParams returns the size and distance of a collection with a single
// unnamed vector, or (0, "") for named or missing vector configs.
func vectorParams(info *qdrant.CollectionInfo) (int, string) {
	params, ok := info.GetConfig().GetParams().GetVectorsConfig().GetConfig().(*qdrant.VectorsConfig_Params)
	if !ok || params.Params == nil {
		return 0, ""
	}
	return int(params.Params.GetSize()), params.Params.GetDistance().String()
}

// chunks splits n items into [start, end) ranges of at most size.
func chunks(n, size int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}
