package model

// BrandDemand 品牌及其需求代理总量
type BrandDemand struct {
	Brand  string  `json:"brand"`
	Demand float64 `json:"demand"`
}

// BrandConcentration 品牌集中度（按需求代理）
// CRn = 前 n 品牌需求占总需求的比例；总需求为 0 时所有 CRn 为 0
type BrandConcentration struct {
	CR3       float64       `json:"cr3"`
	CR5       float64       `json:"cr5"`
	CR10      float64       `json:"cr10"`
	TopBrands []BrandDemand `json:"topBrands"`
}

// TagPerformanceRow 单个标签的表现
type TagPerformanceRow struct {
	Tag        string   `json:"tag"`
	Count      int      `json:"count"`
	Coverage   float64  `json:"coverage"` // count / 总行数
	MeanPrice  *float64 `json:"meanPrice,omitempty"`
	MeanRating *float64 `json:"meanRating,omitempty"`
	MeanDemand float64  `json:"meanDemand"`
	SumDemand  float64  `json:"sumDemand"`
}

// ComboOpportunityRow 低供给高需求：技术标签 × 功效标签组合
type ComboOpportunityRow struct {
	Combo         string   `json:"combo"` // "技术 + 功效"
	Count         int      `json:"count"`
	MeanDemand    float64  `json:"meanDemand"`
	SumDemand     float64  `json:"sumDemand"`
	MeanRating    *float64 `json:"meanRating,omitempty"`
	MeanPrice     *float64 `json:"meanPrice,omitempty"`
	MeanUnitPrice *float64 `json:"meanUnitPrice,omitempty"`
	Score         float64  `json:"score"` // percentile(均需求) × (1 − percentile(SKU数))
}

// PriceGapRow 单位价格十分位桶的空档评估
type PriceGapRow struct {
	BucketMin  float64 `json:"bucketMin"`
	BucketMax  float64 `json:"bucketMax"`
	Count      int     `json:"count"`
	MeanRating float64 `json:"meanRating"`
	MeanDemand float64 `json:"meanDemand"`
	Score      float64 `json:"score"` // (1 − percentile(SKU数)) × percentile(均评分)
}

// RiskTagRow 风险标签：SKU 多但满意度低的功效标签
type RiskTagRow struct {
	Tag        string  `json:"tag"`
	Count      int     `json:"count"`
	MeanRating float64 `json:"meanRating"`
	SumDemand  float64 `json:"sumDemand"`
	Score      float64 `json:"score"` // percentile(SKU数) × (1 − percentile(均评分))
}

// BandDemandRow 价格带需求分布
type BandDemandRow struct {
	Band      string  `json:"band"`
	Count     int     `json:"count"`
	SumDemand float64 `json:"sumDemand"`
}

// PackDemandRow 装数需求分布
type PackDemandRow struct {
	PackCount int     `json:"packCount"`
	Count     int     `json:"count"`
	SumDemand float64 `json:"sumDemand"`
}
