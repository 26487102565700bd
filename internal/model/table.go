package model

import (
	"strconv"
	"strings"
)

// RawTable 原始表格（一个 Sheet 或一个 CSV 文件）
// 列名不可信：可能包含任意语言、标点、大小写；去除首尾空格后须唯一（由读取层保证）
type RawTable struct {
	Name    string          `json:"name"`    // 来源名称（sheet 名或文件名）
	Columns []string        `json:"columns"` // 有序列名
	Rows    [][]interface{} `json:"-"`       // 单元格：string / float64 / nil
}

// ColumnIndex 返回列名对应的下标，未找到返回 -1
func (t *RawTable) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// ColumnValues 返回指定列的所有单元格值，未找到返回 nil
func (t *RawTable) ColumnValues(name string) []interface{} {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, nil)
		}
	}
	return values
}

// Cell 取某行某列的单元格值，越界返回 nil
func (t *RawTable) Cell(row []interface{}, column string) interface{} {
	idx := t.ColumnIndex(column)
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// CellString 取单元格的字符串形式，nil 返回空串
func CellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
