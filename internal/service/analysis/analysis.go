package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/analyzer"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/inference"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/normalizer"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/parser"
)

// Options 分析服务选项
type Options struct {
	FieldRules    inference.FieldRules // nil 用默认词库
	Weights       inference.Weights
	Normalizer    normalizer.Options
	TopBrands     int // 品牌榜长度
	TopSKUs       int // Top SKU 长度
	MinDecileRows int // 单位价格分桶的最小有效行数
	ComboLimit    int
	GapLimit      int
	RiskLimit     int
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{
		Weights:       inference.DefaultWeights(),
		Normalizer:    normalizer.DefaultOptions(),
		TopBrands:     20,
		TopSKUs:       20,
		MinDecileRows: analyzer.DefaultMinDecileRows,
		ComboLimit:    analyzer.DefaultComboLimit,
		GapLimit:      analyzer.DefaultGapLimit,
		RiskLimit:     analyzer.DefaultRiskLimit,
	}
}

// TableAnalysis 一张表的完整分析结果
type TableAnalysis struct {
	ID        string    `json:"id"`
	Sheet     string    `json:"sheet"`
	CreatedAt time.Time `json:"createdAt"`
	RowCount  int       `json:"rowCount"`

	AutoMapping   model.ColumnMapping         `json:"autoMapping"`   // 引擎自动识别结果（供展示/覆盖）
	ChosenMapping model.ColumnMapping         `json:"chosenMapping"` // 应用覆盖与否决后的最终映射
	Ambiguous     map[string][]model.FieldKey `json:"ambiguous,omitempty"`
	Diagnostics   []model.FieldDiagnostics    `json:"diagnostics"`
	Warnings      []string                    `json:"warnings,omitempty"`

	Records []model.NormalizedRecord `json:"records"`

	Concentration model.BrandConcentration    `json:"concentration"`
	TechPerf      []model.TagPerformanceRow   `json:"techPerf"`
	EffPerf       []model.TagPerformanceRow   `json:"effPerf"`
	Opportunities []model.ComboOpportunityRow `json:"opportunities"`
	PriceGaps     []model.PriceGapRow         `json:"priceGaps"`
	RiskTags      []model.RiskTagRow          `json:"riskTags"`
	BandDemand    []model.BandDemandRow       `json:"bandDemand"`
	PackDemand    []model.PackDemandRow       `json:"packDemand"`
	TopSKUs       []model.NormalizedRecord    `json:"topSKUs"`
}

// Service 单表分析编排：推断 → 覆盖 → 诊断 → 归一化 → 聚合
// 无跨调用共享可变状态，可在独立输入上并发使用
type Service struct {
	engine *inference.Engine
	opts   Options
}

// NewService 创建分析服务
func NewService(opts Options) *Service {
	return &Service{
		engine: inference.NewEngine(opts.FieldRules, opts.Weights),
		opts:   opts,
	}
}

// Preview 仅做列推断，返回自动映射与歧义列（供覆盖 UI 展示，不做归一化）
func (s *Service) Preview(table *model.RawTable) (model.ColumnMapping, map[string][]model.FieldKey) {
	mapping := s.engine.InferMapping(table.Columns)
	return mapping, mapping.AmbiguousColumns()
}

// AnalyzeTable 对单张表执行完整流水线
// overrides 为空时完全采用引擎结果；提供时逐字段覆盖（列名或空串=显式未找到），
// 两种路径的下游行为完全一致
func (s *Service) AnalyzeTable(table *model.RawTable, overrides map[model.FieldKey]string) (*TableAnalysis, error) {
	auto := s.engine.InferMapping(table.Columns)
	chosen := inference.ApplyOverrides(auto, table.Columns, overrides)

	ta := &TableAnalysis{
		ID:          uuid.NewString(),
		Sheet:       table.Name,
		CreatedAt:   time.Now(),
		RowCount:    len(table.Rows),
		AutoMapping: auto,
		Ambiguous:   auto.AmbiguousColumns(),
	}

	// 数值字段诊断（信息性；评分的否决在归一化内部执行）
	for _, field := range []model.FieldKey{model.FieldPrice, model.FieldRating, model.FieldReviews, model.FieldSales, model.FieldRevenue, model.FieldRank} {
		col := chosen.Column(field)
		if col == "" {
			continue
		}
		d := inference.DiagnoseColumn(field, col, table.ColumnValues(col))
		if field == model.FieldRating && !inference.RatingPlausible(d) {
			d.Disqualified = true
		}
		ta.Diagnostics = append(ta.Diagnostics, d)
	}

	result, err := normalizer.Normalize(table, chosen, s.opts.Normalizer)
	if err != nil {
		return nil, err
	}
	if result.RatingDisqualified {
		choice := chosen[model.FieldRating]
		choice.Disqualified = true
		chosen = chosen.Clone()
		chosen[model.FieldRating] = choice
	}
	ta.ChosenMapping = chosen
	ta.Warnings = result.Warnings
	ta.Records = result.Records

	ta.Concentration = analyzer.BrandConcentration(ta.Records, s.opts.TopBrands)
	ta.TechPerf = analyzer.TagPerformance(ta.Records, model.TagCategoryTechnology)
	ta.EffPerf = analyzer.TagPerformance(ta.Records, model.TagCategoryEfficacy)
	ta.Opportunities = analyzer.LowSupplyHighDemand(ta.Records, s.opts.ComboLimit)
	ta.PriceGaps = analyzer.UnitPriceGaps(ta.Records, s.opts.MinDecileRows, s.opts.GapLimit)
	ta.RiskTags = analyzer.RiskTags(ta.Records, s.opts.RiskLimit)
	ta.BandDemand = analyzer.BandDemand(ta.Records)
	ta.PackDemand = analyzer.PackDemand(ta.Records)
	ta.TopSKUs = analyzer.TopSKUs(ta.Records, s.opts.TopSKUs)
	return ta, nil
}

// TagDict 当前生效的标签词库
func (s *Service) TagDict() parser.TagDict {
	if s.opts.Normalizer.TagDict == nil {
		return parser.DefaultTagDict()
	}
	return s.opts.Normalizer.TagDict
}
