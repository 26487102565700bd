package model

// DemandSource 需求代理的取值来源（回退链中实际命中的一级）
type DemandSource string

const (
	DemandFromReviews      DemandSource = "reviews"
	DemandFromSales        DemandSource = "sales"
	DemandFromRevenue      DemandSource = "revenue"
	DemandFromInverseRank  DemandSource = "1/rank"
	DemandFromInversePrice DemandSource = "1/price"
	DemandFromNone         DemandSource = "none"
)

// Tags 标题标签（每类至多一个，空串 = 未命中）
type Tags struct {
	Efficacy   string `json:"efficacy,omitempty"`   // 功效
	Technology string `json:"technology,omitempty"` // 技术
	Audience   string `json:"audience,omitempty"`   // 人群
	Context    string `json:"context,omitempty"`    // 场景
}

// ByCategory 按类别名取标签值
func (t Tags) ByCategory(category string) string {
	switch category {
	case TagCategoryEfficacy:
		return t.Efficacy
	case TagCategoryTechnology:
		return t.Technology
	case TagCategoryAudience:
		return t.Audience
	case TagCategoryContext:
		return t.Context
	}
	return ""
}

// 标签类别名（与标签词库的键一致）
const (
	TagCategoryEfficacy   = "efficacy"
	TagCategoryTechnology = "technology"
	TagCategoryAudience   = "audience"
	TagCategoryContext    = "context"
)

// NormalizedRecord 单行的标准化视图（归一化阶段创建一次，之后不可变，仅供聚合消费）
type NormalizedRecord struct {
	RowNo           int          `json:"rowNo"` // 原始行号（1 起）
	Brand           string       `json:"brand"`
	Title           string       `json:"title"`
	Price           *float64     `json:"price,omitempty"`
	Rating          *float64     `json:"rating,omitempty"` // 0-5，未通过合理性校验时缺失
	DemandProxy     float64      `json:"demandProxy"`      // 非负，永不缺失（兜底 0）
	DemandSource    DemandSource `json:"demandSource"`
	NetContentGrams *float64     `json:"netContentGrams,omitempty"`
	PackCount       int          `json:"packCount"` // 正整数，默认 1
	UnitPrice       *float64     `json:"unitPrice,omitempty"` // 每克（无净含量时每件）
	Tags            Tags         `json:"tags"`
	PriceBand       string       `json:"priceBand,omitempty"`
}
