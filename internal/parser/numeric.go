package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

	// 全角/本地化字符归一为 ASCII，货币标记统一为 $
	cleanReplacer = strings.NewReplacer(
		"，", ",",
		"−", "-",
		"—", "-",
		"–", "-",
		"US$", "$",
		"USD", "$",
		"us$", "$",
		"usd", "$",
	)
)

// ParseNumeric 将任意单元格值解析为数值
// 失败返回 (0, false)；空值视为不可解析，绝不静默归零，由调用方决定默认值
//
// 字符串解析规则：
//   - 归一本地化的逗号/减号/破折号，统一货币标记，去掉千分位逗号
//   - 提取全部 `digits(.digits)?` 子串，没有则不可解析
//   - 含区间标记（连字符或 " to "）且至少两个数时取前两个的均值："12.99-18.99" → 15.99
//   - 否则取第一个数："$12.99 (save $2)" → 12.99，"US$ 12.99/count" → 12.99
func ParseNumeric(cell interface{}) (float64, bool) {
	switch v := cell.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return parseNumericString(v)
	default:
		return 0, false
	}
}

func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	s = cleanReplacer.Replace(s)
	nums := numberRe.FindAllString(strings.ReplaceAll(s, ",", ""), -1)
	if len(nums) == 0 {
		return 0, false
	}

	if len(nums) >= 2 && (strings.Contains(s, "-") || strings.Contains(strings.ToLower(s), " to ")) {
		a, errA := strconv.ParseFloat(nums[0], 64)
		b, errB := strconv.ParseFloat(nums[1], 64)
		if errA == nil && errB == nil {
			return (a + b) / 2.0, true
		}
	}

	v, err := strconv.ParseFloat(nums[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePercent 按百分数语义解析："15%" → 0.15
// 与 ParseNumeric 是两种独立模式：价格等字段绝不应用 % 缩放
func ParsePercent(cell interface{}) (float64, bool) {
	v, ok := ParseNumeric(cell)
	if !ok {
		return 0, false
	}
	if s, isStr := cell.(string); isStr && strings.Contains(s, "%") {
		return v / 100.0, true
	}
	return v, true
}
