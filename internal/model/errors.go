package model

import (
	"errors"
	"fmt"
	"strings"
)

// MissingRequiredFieldError 必需字段（品牌/标题）无法映射，整表拒绝
// 单元格级与字段级问题一律降级为缺失并计入诊断，只有该错误会终止对一张表的归一化
type MissingRequiredFieldError struct {
	Fields []FieldKey
}

func (e *MissingRequiredFieldError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, string(f))
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(names, ", "))
}

// IsMissingRequiredField 判断错误是否为必需字段缺失
func IsMissingRequiredField(err error) bool {
	var target *MissingRequiredFieldError
	return errors.As(err, &target)
}
