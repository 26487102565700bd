package analyzer

import (
	"sort"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

// BrandConcentration 品牌集中度：按品牌汇总需求代理并降序排列
// CRn = 前 n 品牌需求 / 总需求；总需求为 0 时所有 CRn 定义为 0（避免除零）
func BrandConcentration(records []model.NormalizedRecord, topN int) model.BrandConcentration {
	sums := make(map[string]float64)
	for _, rec := range records {
		if rec.Brand == "" {
			continue
		}
		sums[rec.Brand] += rec.DemandProxy
	}

	brands := make([]model.BrandDemand, 0, len(sums))
	var total float64
	for brand, demand := range sums {
		brands = append(brands, model.BrandDemand{Brand: brand, Demand: demand})
		total += demand
	}
	sort.Slice(brands, func(i, j int) bool {
		if brands[i].Demand != brands[j].Demand {
			return brands[i].Demand > brands[j].Demand
		}
		return brands[i].Brand < brands[j].Brand
	})

	out := model.BrandConcentration{
		CR3:  crRatio(brands, 3, total),
		CR5:  crRatio(brands, 5, total),
		CR10: crRatio(brands, 10, total),
	}
	if topN > 0 && len(brands) > topN {
		brands = brands[:topN]
	}
	out.TopBrands = brands
	return out
}

func crRatio(brands []model.BrandDemand, n int, total float64) float64 {
	if total <= 0 {
		return 0
	}
	var sum float64
	for i, b := range brands {
		if i >= n {
			break
		}
		sum += b.Demand
	}
	return sum / total
}
