package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

// ReadWorkbook 读取 xlsx 工作簿，每个非空 sheet 产出一张 RawTable
// 首行为表头；表头去首尾空格后若重名，追加序号保证表内列名唯一（下游契约要求）
func ReadWorkbook(r io.Reader) ([]*model.RawTable, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	var tables []*model.RawTable
	for _, sheetName := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheetName)
		if err != nil {
			continue
		}
		table := tableFromRows(sheetName, rows)
		if table != nil {
			tables = append(tables, table)
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("workbook has no non-empty sheets")
	}
	return tables, nil
}

// tableFromRows 首行作表头，其余行作数据；没有表头或没有数据行返回 nil
func tableFromRows(name string, rows [][]string) *model.RawTable {
	if len(rows) < 2 {
		return nil
	}

	columns := dedupeColumns(rows[0])
	if len(columns) == 0 {
		return nil
	}

	data := make([][]interface{}, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		cells := make([]interface{}, len(columns))
		for i := range columns {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cells[i] = row[i]
			}
		}
		data = append(data, cells)
	}
	if len(data) == 0 {
		return nil
	}
	return &model.RawTable{Name: name, Columns: columns, Rows: data}
}

// dedupeColumns 去首尾空格并保证唯一：重名列追加 " (2)"、" (3)"…
func dedupeColumns(header []string) []string {
	columns := make([]string, 0, len(header))
	seen := make(map[string]int)
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
			seen[name]++
		}
		columns = append(columns, name)
	}
	// 允许尾部全空表头被裁掉
	for len(columns) > 0 && strings.HasPrefix(columns[len(columns)-1], "column_") {
		columns = columns[:len(columns)-1]
	}
	return columns
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
