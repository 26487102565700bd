package model

// FieldKey 语义字段（推断引擎在任意表格中定位的领域概念）
type FieldKey string

const (
	FieldASIN       FieldKey = "asin"
	FieldBrand      FieldKey = "brand"
	FieldTitle      FieldKey = "title"
	FieldPrice      FieldKey = "price"
	FieldRating     FieldKey = "rating"
	FieldReviews    FieldKey = "reviews"
	FieldSales      FieldKey = "sales"
	FieldRevenue    FieldKey = "revenue"
	FieldSize       FieldKey = "size"
	FieldPack       FieldKey = "pack"
	FieldWeight     FieldKey = "weight"
	FieldDimensions FieldKey = "dimensions"
	FieldRank       FieldKey = "rank"
)

// AllFields 推断引擎识别的全部语义字段（固定顺序，便于稳定输出）
func AllFields() []FieldKey {
	return []FieldKey{
		FieldASIN, FieldBrand, FieldTitle, FieldPrice, FieldRating,
		FieldReviews, FieldSize, FieldPack, FieldWeight, FieldDimensions,
		FieldSales, FieldRevenue, FieldRank,
	}
}

// FieldChoice 单个语义字段的列选择结果
type FieldChoice struct {
	Column       string  `json:"column"` // 空串 = 未找到
	Score        float64 `json:"score"`
	Overridden   bool    `json:"overridden,omitempty"`   // 由调用方手动指定
	Disqualified bool    `json:"disqualified,omitempty"` // 被合理性校验否决（如评分超出 0-5）
}

// Mapped 该字段是否映射到了某一列
func (c FieldChoice) Mapped() bool {
	return c.Column != "" && !c.Disqualified
}

// ColumnMapping 语义字段 → 列选择（对单个 RawTable 构建一次，可被调用方逐字段覆盖）
type ColumnMapping map[FieldKey]FieldChoice

// Column 返回字段映射到的列名；未映射（或被否决）返回空串
func (m ColumnMapping) Column(field FieldKey) string {
	if c, ok := m[field]; ok && c.Mapped() {
		return c.Column
	}
	return ""
}

// Clone 深拷贝
func (m ColumnMapping) Clone() ColumnMapping {
	out := make(ColumnMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AmbiguousColumns 返回同时是多个字段最佳匹配的列（不自动裁决，仅供上层展示）
func (m ColumnMapping) AmbiguousColumns() map[string][]FieldKey {
	byColumn := make(map[string][]FieldKey)
	for _, field := range AllFields() {
		c, ok := m[field]
		if !ok || c.Column == "" {
			continue
		}
		byColumn[c.Column] = append(byColumn[c.Column], field)
	}
	out := make(map[string][]FieldKey)
	for col, fields := range byColumn {
		if len(fields) > 1 {
			out[col] = fields
		}
	}
	return out
}
