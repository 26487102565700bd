package inference

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

// Weights 打分权重
// 这些常数是针对市场导出表经验调优的缺省值，不承载更多语义；换领域时应重新调参
type Weights struct {
	Base           float64 // include 首关键词的基础分
	PositionCap    int     // 位置衰减的封顶（j 超过后不再继续衰减）
	ExcludePenalty float64 // exclude 命中的扣分
	ShortNameBonus float64 // “列名基本就是关键词本身”时的加分
	ShortNameTopN  int     // 参与短名加分的 include 前 N 个关键词
	ShortNameSlack int     // 列名长度 ≤ len(keyword)+Slack 视为短名
	ShortNameMin   int     // 短名长度判定的下限
}

// DefaultWeights 缺省权重
func DefaultWeights() Weights {
	return Weights{
		Base:           10,
		PositionCap:    8,
		ExcludePenalty: 12,
		ShortNameBonus: 2,
		ShortNameTopN:  6,
		ShortNameSlack: 8,
		ShortNameMin:   18,
	}
}

// Engine 列名推断引擎：对每个语义字段独立打分选列
// 纯函数式：相同输入必然产出相同结果；词库与权重加载后只读，可并发使用
type Engine struct {
	rules   FieldRules
	weights Weights
}

// NewEngine 创建推断引擎；rules 为 nil 时用默认词库
func NewEngine(rules FieldRules, weights Weights) *Engine {
	if rules == nil {
		rules = DefaultFieldRules()
	}
	return &Engine{rules: rules, weights: weights}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeName 列名归一：去首尾空格、转小写、压缩内部空白
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRe.ReplaceAllString(s, " ")
}

// scoreColumn 对单个候选列名打分
func (e *Engine) scoreColumn(normalized string, rule FieldRule) float64 {
	w := e.weights
	score := 0.0

	for j, kw := range rule.Include {
		kwN := normalizeName(kw)
		if kwN == "" || !strings.Contains(normalized, kwN) {
			continue
		}
		pos := j
		if pos > w.PositionCap {
			pos = w.PositionCap
		}
		score += w.Base - float64(pos)
	}

	for _, kw := range rule.Exclude {
		if kwN := normalizeName(kw); kwN != "" && strings.Contains(normalized, kwN) {
			score -= w.ExcludePenalty
		}
	}

	// 短名加分：列名长度接近关键词本身时，优先于“关键词只是其中一个词”的长列名
	topN := w.ShortNameTopN
	if topN > len(rule.Include) {
		topN = len(rule.Include)
	}
	for _, kw := range rule.Include[:topN] {
		kwN := normalizeName(kw)
		if kwN == "" || !strings.Contains(normalized, kwN) {
			continue
		}
		limit := utf8.RuneCountInString(kwN) + w.ShortNameSlack
		if limit < w.ShortNameMin {
			limit = w.ShortNameMin
		}
		if utf8.RuneCountInString(normalized) <= limit {
			score += w.ShortNameBonus
		}
	}

	return score
}

// BestColumn 为单个字段在候选列中选出最佳匹配
// 返回列名与得分；最佳得分 ≤ 0 时返回 ("", score)，绝不强行给出低置信度猜测
// 并列时保留先出现的列（扫描顺序即输入列顺序，结果稳定）
func (e *Engine) BestColumn(columns []string, field model.FieldKey) (string, float64) {
	rule, ok := e.rules[field]
	if !ok || len(columns) == 0 {
		return "", -1e9
	}

	bestCol := ""
	bestScore := -1e9
	for _, col := range columns {
		score := e.scoreColumn(normalizeName(col), rule)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
	}

	if bestScore <= 0 {
		return "", bestScore
	}
	return bestCol, bestScore
}

// InferMapping 对全部语义字段推断列映射
// 不强制列的全局唯一：同一列可能同时是多个字段的最佳匹配，由上层在覆盖层裁决
func (e *Engine) InferMapping(columns []string) model.ColumnMapping {
	mapping := make(model.ColumnMapping, len(model.AllFields()))
	for _, field := range model.AllFields() {
		col, score := e.BestColumn(columns, field)
		mapping[field] = model.FieldChoice{Column: col, Score: score}
	}
	return mapping
}

// ApplyOverrides 应用调用方的逐字段覆盖
// 值为合法列名时强制选中该列；为空串时显式置为“未找到”；未知列名忽略
func ApplyOverrides(mapping model.ColumnMapping, columns []string, overrides map[model.FieldKey]string) model.ColumnMapping {
	if len(overrides) == 0 {
		return mapping
	}
	valid := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		valid[col] = struct{}{}
	}

	out := mapping.Clone()
	for field, col := range overrides {
		if col == "" {
			out[field] = model.FieldChoice{Column: "", Score: 0, Overridden: true}
			continue
		}
		if _, ok := valid[col]; !ok {
			continue
		}
		out[field] = model.FieldChoice{Column: col, Score: 0, Overridden: true}
	}
	return out
}
