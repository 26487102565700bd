package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultUnitToGrams 单位 → 克的换算表
// ml≈1g 是密度近似（按品类密度可调），通过 UnitsWithDensity 覆盖
func DefaultUnitToGrams() map[string]float64 {
	return map[string]float64{
		"g": 1.0, "gram": 1.0, "grams": 1.0,
		"kg": 1000.0,
		"oz": 28.3495, "ounce": 28.3495, "ounces": 28.3495,
		"ml": 1.0,
		"l":  1000.0,
	}
}

// UnitsWithDensity 返回按给定密度（克/毫升）调整过 ml/l 的换算表
func UnitsWithDensity(gramsPerML float64) map[string]float64 {
	table := DefaultUnitToGrams()
	if gramsPerML > 0 {
		table["ml"] = gramsPerML
		table["l"] = gramsPerML * 1000.0
	}
	return table
}

var (
	netContentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(g|gram|grams|kg|oz|ounce|ounces|ml|l)\b`)

	packOfRe = regexp.MustCompile(`pack\s*of\s*(\d+)`)
	nPackRe  = regexp.MustCompile(`(\d+)\s*pack\b`)
	nCountRe = regexp.MustCompile(`(\d+)\s*count\b`)
	timesNRe = regexp.MustCompile(`[x×]\s*(\d+)`)
)

// ParseNetContentGrams 从自由文本中提取净含量并换算为克
// "4 oz" → 113.398，"120g" → 120，"0.5 kg" → 500；没有匹配返回 (0, false)
func ParseNetContentGrams(text string) (float64, bool) {
	return ParseNetContentGramsWith(text, nil)
}

// ParseNetContentGramsWith 使用自定义换算表提取净含量，table 为 nil 时用默认表
func ParseNetContentGramsWith(text string, table map[string]float64) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}
	m := netContentRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if table == nil {
		table = DefaultUnitToGrams()
	}
	factor, ok := table[m[2]]
	if !ok {
		return 0, false
	}
	return val * factor, true
}

// ParsePackCount 从自由文本中提取装数，按优先级匹配：
// "pack of N" > "N pack" > "N count" > "xN"/"×N"；无匹配返回 1
func ParsePackCount(text string) int {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 1
	}

	for _, re := range []*regexp.Regexp{packOfRe, nPackRe, nCountRe, timesNRe} {
		if m := re.FindStringSubmatch(s); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}
