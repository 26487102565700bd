package v1

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/excel"
)

// UploadResponse 上传响应
type UploadResponse struct {
	Token  string         `json:"token"`
	File   string         `json:"file"`
	Sheets []SheetPreview `json:"sheets"`
}

// SheetPreview 单表预览：列名、自动映射与歧义提示
type SheetPreview struct {
	Name      string                      `json:"name"`
	RowCount  int                         `json:"rowCount"`
	Columns   []string                    `json:"columns"`
	Mapping   model.ColumnMapping         `json:"mapping"`
	Ambiguous map[string][]model.FieldKey `json:"ambiguous,omitempty"`
}

// Upload 上传数据文件（xlsx/csv）并返回各表的自动列映射
// POST /api/v1/upload
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "打开上传文件失败"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}

	tables, err := readTables(fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "解析文件失败: " + err.Error()})
		return
	}
	if len(tables) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件中没有可用数据表"})
		return
	}

	token := h.uploads.put(fileHeader.Filename, tables)

	c.JSON(http.StatusOK, UploadResponse{
		Token:  token,
		File:   fileHeader.Filename,
		Sheets: h.previewSheets(tables),
	})
}

// Preview 重新取回某次上传的预览（映射为当前引擎的自动结果）
// GET /api/v1/upload/:token/preview
func (h *Handler) Preview(c *gin.Context) {
	session, ok := h.uploads.get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "上传会话不存在或已过期"})
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		Token:  c.Param("token"),
		File:   session.fileName,
		Sheets: h.previewSheets(session.tables),
	})
}

func (h *Handler) previewSheets(tables []*model.RawTable) []SheetPreview {
	previews := make([]SheetPreview, 0, len(tables))
	for _, t := range tables {
		mapping, ambiguous := h.service.Preview(t)
		previews = append(previews, SheetPreview{
			Name:      t.Name,
			RowCount:  len(t.Rows),
			Columns:   t.Columns,
			Mapping:   mapping,
			Ambiguous: ambiguous,
		})
	}
	return previews
}

func readTables(fileName string, data []byte) ([]*model.RawTable, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".csv" {
		table, err := excel.ReadCSV(fileName, data)
		if err != nil {
			return nil, err
		}
		return []*model.RawTable{table}, nil
	}
	return excel.ReadWorkbook(bytes.NewReader(data))
}
