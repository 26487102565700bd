package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV 读取 CSV 为一张 RawTable，按 UTF-8 → GBK → Latin-1 依次尝试解码
// 市场导出的 CSV 编码混乱是常态，解码失败不应让用户手工转存
func ReadCSV(name string, data []byte) (*model.RawTable, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	candidates := []struct {
		name string
		dec  *encoding.Decoder
	}{
		{"utf-8", nil},
		{"gbk", simplifiedchinese.GBK.NewDecoder()},
		{"latin-1", charmap.ISO8859_1.NewDecoder()},
	}

	var lastErr error
	for _, cand := range candidates {
		decoded := data
		if cand.dec != nil {
			out, _, err := transform.Bytes(cand.dec, data)
			if err != nil {
				lastErr = err
				continue
			}
			decoded = out
		} else if !utf8.Valid(data) {
			lastErr = fmt.Errorf("not valid utf-8")
			continue
		}

		rows, err := parseCSVRows(bytes.NewReader(decoded))
		if err != nil {
			lastErr = err
			continue
		}
		if table := tableFromRows(name, rows); table != nil {
			return table, nil
		}
		lastErr = fmt.Errorf("csv has no data rows")
	}
	return nil, fmt.Errorf("read csv %s: %w", name, lastErr)
}

func parseCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 行内列数不齐时不报错，交给表格层对齐
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}
