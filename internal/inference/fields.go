package inference

import (
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

// FieldRule 单个语义字段的关键词规则
// Include 有序：越靠前权重越高；Exclude 命中则扣分，用于区分 "list price" 与 "price"
type FieldRule struct {
	Include []string
	Exclude []string
}

// FieldRules 语义字段 → 关键词规则（进程级只读配置，加载后不再变更）
type FieldRules map[model.FieldKey]FieldRule

// DefaultFieldRules 默认的中英双语字段词库
// 针对市场导出表的常见列名（含缩写与营销式写法）经验调优
func DefaultFieldRules() FieldRules {
	return FieldRules{
		model.FieldASIN: {
			Include: []string{"asin", "sku", "parent asin", "child asin", "asin码", "父asin", "子asin", "商品id", "产品id", "listing id", "item id"},
			Exclude: []string{"brand", "title", "name"},
		},
		model.FieldBrand: {
			Include: []string{"brand", "品牌", "品牌名", "manufacturer", "maker", "厂牌", "company"},
			Exclude: []string{"brand registry", "brand story", "title"},
		},
		model.FieldTitle: {
			Include: []string{"title", "name", "product name", "商品名", "商品标题", "标题", "品名", "listing title", "product title"},
			Exclude: []string{"brand", "asin", "sku"},
		},
		model.FieldPrice: {
			Include: []string{"price", "售价", "当前价", "现价", "sale price", "our price", "buy box", "buybox", "价格", "current price", "amazon price"},
			Exclude: []string{"list price", "msrp", "coupon", "discount", "save", "off", "promo", "rebate"},
		},
		model.FieldRating: {
			Include: []string{"rating", "stars", "star", "评分", "星级", "average rating", "avg rating", "rating score"},
			Exclude: []string{"ratings count", "review", "reviews", "total ratings", "review count"},
		},
		model.FieldReviews: {
			Include: []string{"reviews", "review", "review count", "ratings count", "total ratings", "评论数", "评价数", "评分数", "review#", "ratings#", "number of reviews"},
			Exclude: []string{"rating", "stars", "star", "avg rating"},
		},
		model.FieldSales: {
			Include: []string{"sales", "units", "销量", "销售量", "unit sold", "sold", "orders", "订单量", "units sold"},
			Exclude: []string{"sales rank", "rank", "bsr"},
		},
		model.FieldRevenue: {
			Include: []string{"revenue", "sales revenue", "销售额", "成交额", "gmv", "金额", "sales $", "gross sales"},
			Exclude: []string{"profit", "margin", "net"},
		},
		model.FieldSize: {
			Include: []string{"size", "net", "net content", "net wt", "net weight", "净含量", "净重", "含量", "oz", "ounce", "ml", "g", "gram", "volume"},
			Exclude: []string{"dimension", "dimensions", "length", "width", "height", "package", "shipping"},
		},
		model.FieldPack: {
			Include: []string{"pack", "pack of", "count", "qty", "quantity", "数量", "装", "套装", "组合", "variant", "variations", "variation", "flavor", "口味", "规格"},
			Exclude: []string{"package weight", "package dimensions", "shipping", "review", "ratings"},
		},
		model.FieldWeight: {
			Include: []string{"weight", "重量", "package weight", "item weight", "shipping weight", "lbs", "lb", "pounds", "kg"},
			Exclude: []string{"net wt", "net weight", "净重", "净含量"},
		},
		model.FieldDimensions: {
			Include: []string{"dimensions", "dimension", "尺寸", "package dimensions", "item dimensions", "length", "width", "height", "cm", "inch", "inches"},
			Exclude: []string{"size", "net", "oz", "ml", "g", "gram"},
		},
		model.FieldRank: {
			Include: []string{"rank", "bsr", "best sellers rank", "排名", "搜索排名", "organic rank", "ads rank", "position", "ranking"},
			Exclude: []string{"rating", "reviews"},
		},
	}
}
