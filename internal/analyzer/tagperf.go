package analyzer

import (
	"sort"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

// TagPerformance 某个标签类别下的标签表现表
// 按标签值分组（缺失剔除），统计 SKU 数、覆盖率、均价、均评分、需求均值/总量，
// 按（需求总量, 均评分）降序
func TagPerformance(records []model.NormalizedRecord, category string) []model.TagPerformanceRow {
	total := len(records)
	if total == 0 {
		return nil
	}

	type accum struct {
		count      int
		prices     []float64
		ratings    []float64
		demandSum  float64
		demandVals []float64
	}
	groups := make(map[string]*accum)

	for _, rec := range records {
		tag := rec.Tags.ByCategory(category)
		if tag == "" {
			continue
		}
		g, ok := groups[tag]
		if !ok {
			g = &accum{}
			groups[tag] = g
		}
		g.count++
		if rec.Price != nil {
			g.prices = append(g.prices, *rec.Price)
		}
		if rec.Rating != nil {
			g.ratings = append(g.ratings, *rec.Rating)
		}
		g.demandSum += rec.DemandProxy
		g.demandVals = append(g.demandVals, rec.DemandProxy)
	}

	rows := make([]model.TagPerformanceRow, 0, len(groups))
	for tag, g := range groups {
		row := model.TagPerformanceRow{
			Tag:        tag,
			Count:      g.count,
			Coverage:   float64(g.count) / float64(total),
			MeanDemand: mean(g.demandVals),
			SumDemand:  g.demandSum,
		}
		if len(g.prices) > 0 {
			v := mean(g.prices)
			row.MeanPrice = &v
		}
		if len(g.ratings) > 0 {
			v := mean(g.ratings)
			row.MeanRating = &v
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SumDemand != rows[j].SumDemand {
			return rows[i].SumDemand > rows[j].SumDemand
		}
		ri, rj := 0.0, 0.0
		if rows[i].MeanRating != nil {
			ri = *rows[i].MeanRating
		}
		if rows[j].MeanRating != nil {
			rj = *rows[j].MeanRating
		}
		if ri != rj {
			return ri > rj
		}
		return rows[i].Tag < rows[j].Tag
	})
	return rows
}

// BandDemand 价格带需求分布（缺失价格带归入空串分组后剔除）
func BandDemand(records []model.NormalizedRecord) []model.BandDemandRow {
	type accum struct {
		count  int
		demand float64
	}
	groups := make(map[string]*accum)
	for _, rec := range records {
		if rec.PriceBand == "" {
			continue
		}
		g, ok := groups[rec.PriceBand]
		if !ok {
			g = &accum{}
			groups[rec.PriceBand] = g
		}
		g.count++
		g.demand += rec.DemandProxy
	}

	rows := make([]model.BandDemandRow, 0, len(groups))
	for band, g := range groups {
		rows = append(rows, model.BandDemandRow{Band: band, Count: g.count, SumDemand: g.demand})
	}
	sort.Slice(rows, func(i, j int) bool { return bandOrder(rows[i].Band) < bandOrder(rows[j].Band) })
	return rows
}

// bandOrder 价格带排序键："<10" 最小，"30+" 最大，中间按下界数值
func bandOrder(band string) float64 {
	if band == "" {
		return 1e18
	}
	if band[0] == '<' {
		return -1e18
	}
	var lo float64
	for i := 0; i < len(band); i++ {
		c := band[i]
		if c == '-' || c == '+' {
			break
		}
		if c >= '0' && c <= '9' {
			lo = lo*10 + float64(c-'0')
		}
	}
	return lo
}

// PackDemand 装数需求分布，按装数升序
func PackDemand(records []model.NormalizedRecord) []model.PackDemandRow {
	type accum struct {
		count  int
		demand float64
	}
	groups := make(map[int]*accum)
	for _, rec := range records {
		g, ok := groups[rec.PackCount]
		if !ok {
			g = &accum{}
			groups[rec.PackCount] = g
		}
		g.count++
		g.demand += rec.DemandProxy
	}

	rows := make([]model.PackDemandRow, 0, len(groups))
	for pack, g := range groups {
		rows = append(rows, model.PackDemandRow{PackCount: pack, Count: g.count, SumDemand: g.demand})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PackCount < rows[j].PackCount })
	return rows
}

// TopSKUs 需求代理最高的前 n 条记录
func TopSKUs(records []model.NormalizedRecord, n int) []model.NormalizedRecord {
	out := append([]model.NormalizedRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DemandProxy > out[j].DemandProxy })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
