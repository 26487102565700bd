package model

// FieldDiagnostics 单个数值字段的读取诊断
// 用于发现选错列：评分列解析出的中位数远超 5 时几乎必然是评论数
type FieldDiagnostics struct {
	Field            FieldKey `json:"field"`
	Column           string   `json:"column"`
	NonEmptyRate     float64  `json:"nonEmptyRate"`     // 非空占比 [0,1]
	ParseSuccessRate float64  `json:"parseSuccessRate"` // 成功解析占比 [0,1]
	Median           float64  `json:"median"`
	P90              float64  `json:"p90"`
	Mean             float64  `json:"mean"`
	Disqualified     bool     `json:"disqualified,omitempty"`
	BadSamples       []string `json:"badSamples,omitempty"` // 解析失败的原值样本（最多 20 个）
}
