package parser

import (
	"strings"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

// TagDict 标签词库：类别 → 有序小写关键词（列表顺序即优先级，手工维护）
type TagDict map[string][]string

// DefaultTagDict 默认四类标签词库（功效/技术/人群/场景）
func DefaultTagDict() TagDict {
	return TagDict{
		model.TagCategoryEfficacy: {
			"whitening", "brighten", "sensitivity", "sensitive", "repair", "remineral",
			"remineralization", "enamel", "gum", "fresh", "breath", "cavity",
			"anti-caries", "plaque", "tartar", "stain",
		},
		model.TagCategoryTechnology: {
			"nano", "hydroxyapatite", "hap", "fluoride-free", "fluoride free", "xylitol",
			"activated charcoal", "charcoal", "probiotic", "biomimetic",
		},
		model.TagCategoryAudience: {
			"kids", "children", "adult", "seniors", "pregnant", "braces", "orthodontic",
		},
		model.TagCategoryContext: {
			"night", "daily", "travel", "morning", "after meals",
		},
	}
}

// Merge 用调用方提供的词库覆盖/扩展对应类别，返回新词库
func (d TagDict) Merge(override TagDict) TagDict {
	out := make(TagDict, len(d))
	for cat, kws := range d {
		out[cat] = kws
	}
	for cat, kws := range override {
		out[cat] = kws
	}
	return out
}

// ExtractTags 对文本做大小写不敏感的子串匹配，每个类别取词库顺序中第一个命中的关键词
// 类别之间相互独立；无命中类别在结果中缺失。刻意不做分词/词干化：词库按领域手工维护，
// 列表顺序即编码了意图优先级
func ExtractTags(text string, dict TagDict) map[string]string {
	out := make(map[string]string)
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return out
	}
	for category, keywords := range dict {
		for _, kw := range keywords {
			if kw != "" && strings.Contains(t, strings.ToLower(kw)) {
				out[category] = strings.ToLower(kw)
				break
			}
		}
	}
	return out
}
