package normalizer

import (
	"fmt"
	"math"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/inference"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/parser"
)

// Options 归一化选项
type Options struct {
	PriceBandBounds  []float64          // 价格带边界（升序），默认 10/15/20/30
	UnitToGrams      map[string]float64 // 单位换算表，nil 用默认表
	TagDict          parser.TagDict     // 标签词库，nil 用默认词库
	BrandPlaceholder string             // 品牌占位符（品牌列存在但单元格为空时）
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{
		PriceBandBounds:  []float64{10, 15, 20, 30},
		UnitToGrams:      parser.DefaultUnitToGrams(),
		TagDict:          parser.DefaultTagDict(),
		BrandPlaceholder: "(unknown)",
	}
}

// Result 一张表的归一化结果
type Result struct {
	Records            []model.NormalizedRecord
	RatingDisqualified bool     // 评分列未通过 0-5 合理性校验被否决
	Warnings           []string // 字段级告警（不中止整表）
}

// demandStrategy 需求代理回退链中的一级：回退顺序是数据而不是嵌套条件，
// 便于独立测试与扩展
type demandStrategy struct {
	source  model.DemandSource
	field   model.FieldKey
	extract func(raw float64) (float64, bool)
}

// demandChain 回退链定义，先命中者胜：
// reviews → sales → revenue → 1/rank（rank=0 视为缺失） → 1/price（弱替代）
var demandChain = []demandStrategy{
	{source: model.DemandFromReviews, field: model.FieldReviews, extract: identityDemand},
	{source: model.DemandFromSales, field: model.FieldSales, extract: identityDemand},
	{source: model.DemandFromRevenue, field: model.FieldRevenue, extract: identityDemand},
	{source: model.DemandFromInverseRank, field: model.FieldRank, extract: inverseDemand},
	{source: model.DemandFromInversePrice, field: model.FieldPrice, extract: inverseDemand},
}

func identityDemand(raw float64) (float64, bool) {
	if raw < 0 {
		return 0, false
	}
	return raw, true
}

func inverseDemand(raw float64) (float64, bool) {
	if raw <= 0 {
		return 0, false
	}
	return 1.0 / raw, true
}

// Normalize 按最终列映射把整张表归一化为记录集
// 品牌与标题是必需字段：任一无法映射时整表拒绝（返回 MissingRequiredFieldError），
// 绝不静默产出残缺记录。评分列先过 0-5 合理性硬校验，未通过则降级为缺失
func Normalize(table *model.RawTable, mapping model.ColumnMapping, opts Options) (*Result, error) {
	if missing := requiredMissing(mapping); len(missing) > 0 {
		return nil, &model.MissingRequiredFieldError{Fields: missing}
	}

	if opts.UnitToGrams == nil {
		opts.UnitToGrams = parser.DefaultUnitToGrams()
	}
	if opts.TagDict == nil {
		opts.TagDict = parser.DefaultTagDict()
	}
	if opts.BrandPlaceholder == "" {
		opts.BrandPlaceholder = "(unknown)"
	}
	if len(opts.PriceBandBounds) == 0 {
		opts.PriceBandBounds = []float64{10, 15, 20, 30}
	}

	result := &Result{}

	// 评分合理性硬校验：否决后整表评分缺失
	mapping = mapping.Clone()
	if col := mapping.Column(model.FieldRating); col != "" {
		diag := inference.DiagnoseColumn(model.FieldRating, col, table.ColumnValues(col))
		if !inference.RatingPlausible(diag) {
			choice := mapping[model.FieldRating]
			choice.Disqualified = true
			mapping[model.FieldRating] = choice
			result.RatingDisqualified = true
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rating column %q failed 0-5 plausibility check (median=%.2f p90=%.2f), treated as unmapped", col, diag.Median, diag.P90))
		}
	}

	records := make([]model.NormalizedRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		records = append(records, normalizeRow(table, row, i+1, mapping, opts))
	}
	result.Records = records
	return result, nil
}

func requiredMissing(mapping model.ColumnMapping) []model.FieldKey {
	var missing []model.FieldKey
	for _, f := range []model.FieldKey{model.FieldBrand, model.FieldTitle} {
		if mapping.Column(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// normalizeRow 单行归一化：纯函数，行与行之间无依赖
func normalizeRow(table *model.RawTable, row []interface{}, rowNo int, mapping model.ColumnMapping, opts Options) model.NormalizedRecord {
	rec := model.NormalizedRecord{RowNo: rowNo, PackCount: 1, DemandSource: model.DemandFromNone}

	rec.Brand = model.CellString(table.Cell(row, mapping.Column(model.FieldBrand)))
	if rec.Brand == "" {
		rec.Brand = opts.BrandPlaceholder
	}
	rec.Title = model.CellString(table.Cell(row, mapping.Column(model.FieldTitle)))

	if col := mapping.Column(model.FieldPrice); col != "" {
		if v, ok := parser.ParseNumeric(table.Cell(row, col)); ok {
			rec.Price = &v
		}
	}
	if col := mapping.Column(model.FieldRating); col != "" {
		if v, ok := parser.ParseNumeric(table.Cell(row, col)); ok {
			rec.Rating = &v
		}
	}

	rec.DemandProxy, rec.DemandSource = resolveDemand(table, row, mapping, rec.Price)

	if col := mapping.Column(model.FieldSize); col != "" {
		if g, ok := parser.ParseNetContentGramsWith(model.CellString(table.Cell(row, col)), opts.UnitToGrams); ok {
			rec.NetContentGrams = &g
		}
	}

	if col := mapping.Column(model.FieldPack); col != "" {
		rec.PackCount = parser.ParsePackCount(model.CellString(table.Cell(row, col)))
	} else {
		rec.PackCount = parser.ParsePackCount(rec.Title)
	}

	rec.UnitPrice = unitPrice(rec.Price, rec.NetContentGrams, rec.PackCount)
	rec.Tags = extractRowTags(rec.Title, opts.TagDict)
	rec.PriceBand = priceBand(rec.Price, opts.PriceBandBounds)
	return rec
}

// resolveDemand 按回退链求需求代理，并记录实际命中的来源
func resolveDemand(table *model.RawTable, row []interface{}, mapping model.ColumnMapping, price *float64) (float64, model.DemandSource) {
	for _, strat := range demandChain {
		var raw float64
		var ok bool
		if strat.source == model.DemandFromInversePrice {
			// 价格已在上游解析，复用结果
			if price == nil {
				continue
			}
			raw, ok = *price, true
		} else {
			col := mapping.Column(strat.field)
			if col == "" {
				continue
			}
			raw, ok = parser.ParseNumeric(table.Cell(row, col))
		}
		if !ok {
			continue
		}
		if v, valid := strat.extract(raw); valid {
			return v, strat.source
		}
	}
	return 0, model.DemandFromNone
}

// unitPrice 单位价格：优先每克（净含量 × 装数），无净含量时每件；
// 任一环节除零得缺失，绝不产出 ±Inf/NaN 泄漏进聚合
func unitPrice(price, grams *float64, pack int) *float64 {
	if price == nil {
		return nil
	}
	var v float64
	switch {
	case grams != nil && *grams > 0 && pack > 0:
		v = *price / (*grams * float64(pack))
	case pack > 0:
		v = *price / float64(pack)
	default:
		return nil
	}
	if math.IsInf(v, 0) || math.IsNaN(v) || v < 0 {
		return nil
	}
	return &v
}

func extractRowTags(text string, dict parser.TagDict) model.Tags {
	hits := parser.ExtractTags(text, dict)
	return model.Tags{
		Efficacy:   hits[model.TagCategoryEfficacy],
		Technology: hits[model.TagCategoryTechnology],
		Audience:   hits[model.TagCategoryAudience],
		Context:    hits[model.TagCategoryContext],
	}
}

// priceBand 价格带：边界 [10 15 20 30] 产出 <10 / 10-15 / 15-20 / 20-30 / 30+
func priceBand(price *float64, bounds []float64) string {
	if price == nil {
		return ""
	}
	p := *price
	if p < bounds[0] {
		return fmt.Sprintf("<%s", trimFloat(bounds[0]))
	}
	for i := 1; i < len(bounds); i++ {
		if p < bounds[i] {
			return fmt.Sprintf("%s-%s", trimFloat(bounds[i-1]), trimFloat(bounds[i]))
		}
	}
	return fmt.Sprintf("%s+", trimFloat(bounds[len(bounds)-1]))
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}
