package analyzer

import "sort"

// percentileRanks 计算百分位秩（并列取平均秩，再除以 n），与常见统计库的
// pct rank 口径一致：尺度无关，且在并列时保序
func percentileRanks(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if n == 1 {
		out[0] = 1
		return out
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	i := 0
	for i < n {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// 并列组 [i,j] 的平均秩（1 起）
		avgRank := float64(i+j+2) / 2.0
		for k := i; k <= j; k++ {
			out[idx[k]] = avgRank / float64(n)
		}
		i = j + 1
	}
	return out
}

// quantileEdges 计算 q 分位桶边界（含最小/最大），相同边界去重
// 返回的边界数可能少于 q+1（数据重复度高时）
func quantileEdges(values []float64, q int) []float64 {
	if len(values) == 0 || q < 1 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		pos := float64(i) / float64(q) * float64(len(sorted)-1)
		lo := int(pos)
		v := sorted[lo]
		if lo < len(sorted)-1 {
			frac := pos - float64(lo)
			v = sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
		}
		if len(edges) == 0 || v > edges[len(edges)-1] {
			edges = append(edges, v)
		}
	}
	return edges
}

// bucketIndex 返回值所属的桶下标（edges 为升序边界，最后一桶右闭）
func bucketIndex(edges []float64, v float64) int {
	for i := 1; i < len(edges)-1; i++ {
		if v < edges[i] {
			return i - 1
		}
	}
	return len(edges) - 2
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
