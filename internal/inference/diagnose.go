package inference

import (
	"sort"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/parser"
)

// 评分合理性阈值：解析中位数/P90 超过该界限的“评分列”几乎必然是评论数之类的计数列
const (
	RatingMedianMax = 5.5
	RatingP90Max    = 6.0
)

// badSampleLimit 诊断中保留的解析失败原值样本上限
const badSampleLimit = 20

// DiagnoseColumn 对某字段映射到的列做数值解析诊断
// 报告解析成功率与集中趋势（中位数/P90/均值），供操作员或自动校验发现选错的列
func DiagnoseColumn(field model.FieldKey, column string, values []interface{}) model.FieldDiagnostics {
	d := model.FieldDiagnostics{Field: field, Column: column}
	if len(values) == 0 {
		return d
	}

	parsed := make([]float64, 0, len(values))
	nonEmpty := 0
	var sum float64
	for _, v := range values {
		if v == nil || model.CellString(v) == "" {
			continue
		}
		nonEmpty++
		num, ok := parser.ParseNumeric(v)
		if !ok {
			if len(d.BadSamples) < badSampleLimit {
				d.BadSamples = append(d.BadSamples, model.CellString(v))
			}
			continue
		}
		parsed = append(parsed, num)
		sum += num
	}

	d.NonEmptyRate = float64(nonEmpty) / float64(len(values))
	if nonEmpty > 0 {
		d.ParseSuccessRate = float64(len(parsed)) / float64(nonEmpty)
	}
	if len(parsed) > 0 {
		sort.Float64s(parsed)
		d.Median = quantileSorted(parsed, 0.5)
		d.P90 = quantileSorted(parsed, 0.9)
		d.Mean = sum / float64(len(parsed))
	}
	return d
}

// RatingPlausible 评分列合理性硬校验：0-5 分布的中位数/P90 不应超界
// 不通过的评分字段必须在归一化前被否决，降级为缺失而不是产出无意义数据
func RatingPlausible(d model.FieldDiagnostics) bool {
	if d.ParseSuccessRate == 0 {
		// 完全不可解析时没有分布可判，视为不合理
		return false
	}
	return d.Median <= RatingMedianMax && d.P90 <= RatingP90Max
}

// quantileSorted 线性插值分位数，输入须已排序
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(pos)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
