package analyzer

import (
	"sort"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

// 机会点分析的缺省限额与样本下限
const (
	DefaultComboLimit    = 15
	DefaultGapLimit      = 10
	DefaultRiskLimit     = 15
	DefaultMinDecileRows = 30 // 十分位分桶的最小有效行数，低于则返回空
	decileCount          = 10
)

// LowSupplyHighDemand 低供给高需求：按（技术标签 × 功效标签）组合分组，
// 机会分 = percentile(均需求) × (1 − percentile(SKU数))，高分 = 需求高于均值的小组合
func LowSupplyHighDemand(records []model.NormalizedRecord, limit int) []model.ComboOpportunityRow {
	type accum struct {
		count      int
		demandVals []float64
		demandSum  float64
		ratings    []float64
		prices     []float64
		unitPrices []float64
	}
	groups := make(map[string]*accum)

	for _, rec := range records {
		if rec.Tags.Technology == "" || rec.Tags.Efficacy == "" {
			continue
		}
		combo := rec.Tags.Technology + " + " + rec.Tags.Efficacy
		g, ok := groups[combo]
		if !ok {
			g = &accum{}
			groups[combo] = g
		}
		g.count++
		g.demandVals = append(g.demandVals, rec.DemandProxy)
		g.demandSum += rec.DemandProxy
		if rec.Rating != nil {
			g.ratings = append(g.ratings, *rec.Rating)
		}
		if rec.Price != nil {
			g.prices = append(g.prices, *rec.Price)
		}
		if rec.UnitPrice != nil {
			g.unitPrices = append(g.unitPrices, *rec.UnitPrice)
		}
	}
	if len(groups) == 0 {
		return nil
	}

	combos := make([]string, 0, len(groups))
	for combo := range groups {
		combos = append(combos, combo)
	}
	sort.Strings(combos)

	meanDemands := make([]float64, len(combos))
	counts := make([]float64, len(combos))
	for i, combo := range combos {
		meanDemands[i] = mean(groups[combo].demandVals)
		counts[i] = float64(groups[combo].count)
	}
	demandPct := percentileRanks(meanDemands)
	countPct := percentileRanks(counts)

	rows := make([]model.ComboOpportunityRow, 0, len(combos))
	for i, combo := range combos {
		g := groups[combo]
		row := model.ComboOpportunityRow{
			Combo:      combo,
			Count:      g.count,
			MeanDemand: meanDemands[i],
			SumDemand:  g.demandSum,
			Score:      demandPct[i] * (1 - countPct[i]),
		}
		if len(g.ratings) > 0 {
			v := mean(g.ratings)
			row.MeanRating = &v
		}
		if len(g.prices) > 0 {
			v := mean(g.prices)
			row.MeanPrice = &v
		}
		if len(g.unitPrices) > 0 {
			v := mean(g.unitPrices)
			row.MeanUnitPrice = &v
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// UnitPriceGaps 单位价格空档：单位价格十分位分桶，
// 空档分 = (1 − percentile(桶内SKU数)) × percentile(桶内均评分)，高分 = 评分好的稀疏桶
// 有效行（单位价格+评分+需求齐备）少于 minRows 时返回空，不在小样本上产出无意义结论
func UnitPriceGaps(records []model.NormalizedRecord, minRows, limit int) []model.PriceGapRow {
	if minRows <= 0 {
		minRows = DefaultMinDecileRows
	}

	type valid struct {
		unitPrice float64
		rating    float64
		demand    float64
	}
	var rows []valid
	for _, rec := range records {
		if rec.UnitPrice == nil || rec.Rating == nil {
			continue
		}
		rows = append(rows, valid{unitPrice: *rec.UnitPrice, rating: *rec.Rating, demand: rec.DemandProxy})
	}
	if len(rows) <= minRows {
		return nil
	}

	unitPrices := make([]float64, len(rows))
	for i, r := range rows {
		unitPrices[i] = r.unitPrice
	}
	edges := quantileEdges(unitPrices, decileCount)
	if len(edges) < 2 {
		return nil
	}

	nBuckets := len(edges) - 1
	type accum struct {
		count    int
		ratings  []float64
		demands  []float64
		min, max float64
	}
	buckets := make([]*accum, nBuckets)
	for i := range buckets {
		buckets[i] = &accum{min: edges[i], max: edges[i+1]}
	}
	for _, r := range rows {
		b := buckets[bucketIndex(edges, r.unitPrice)]
		b.count++
		b.ratings = append(b.ratings, r.rating)
		b.demands = append(b.demands, r.demand)
	}

	counts := make([]float64, 0, nBuckets)
	meanRatings := make([]float64, 0, nBuckets)
	used := make([]*accum, 0, nBuckets)
	for _, b := range buckets {
		if b.count == 0 {
			continue
		}
		used = append(used, b)
		counts = append(counts, float64(b.count))
		meanRatings = append(meanRatings, mean(b.ratings))
	}
	countPct := percentileRanks(counts)
	ratingPct := percentileRanks(meanRatings)

	out := make([]model.PriceGapRow, 0, len(used))
	for i, b := range used {
		out = append(out, model.PriceGapRow{
			BucketMin:  b.min,
			BucketMax:  b.max,
			Count:      b.count,
			MeanRating: meanRatings[i],
			MeanDemand: mean(b.demands),
			Score:      (1 - countPct[i]) * ratingPct[i],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RiskTags 风险标签：按功效标签分组，
// 风险分 = percentile(SKU数) × (1 − percentile(均评分))，高分 = 广泛使用但满意度偏低
func RiskTags(records []model.NormalizedRecord, limit int) []model.RiskTagRow {
	type accum struct {
		count     int
		ratings   []float64
		demandSum float64
	}
	groups := make(map[string]*accum)
	for _, rec := range records {
		if rec.Tags.Efficacy == "" || rec.Rating == nil {
			continue
		}
		g, ok := groups[rec.Tags.Efficacy]
		if !ok {
			g = &accum{}
			groups[rec.Tags.Efficacy] = g
		}
		g.count++
		g.ratings = append(g.ratings, *rec.Rating)
		g.demandSum += rec.DemandProxy
	}
	if len(groups) == 0 {
		return nil
	}

	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	counts := make([]float64, len(tags))
	meanRatings := make([]float64, len(tags))
	for i, tag := range tags {
		counts[i] = float64(groups[tag].count)
		meanRatings[i] = mean(groups[tag].ratings)
	}
	countPct := percentileRanks(counts)
	ratingPct := percentileRanks(meanRatings)

	rows := make([]model.RiskTagRow, 0, len(tags))
	for i, tag := range tags {
		rows = append(rows, model.RiskTagRow{
			Tag:        tag,
			Count:      groups[tag].count,
			MeanRating: meanRatings[i],
			SumDemand:  groups[tag].demandSum,
			Score:      countPct[i] * (1 - ratingPct[i]),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
