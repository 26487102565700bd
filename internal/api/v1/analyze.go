package v1

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/analysis"
)

// AnalyzeRequest 分析请求
// Overrides 按表名给出字段覆盖：列名，或空串表示显式"该字段不存在"
type AnalyzeRequest struct {
	Sheets    []string                     `json:"sheets"`    // 为空时分析全部表
	Overrides map[string]map[string]string `json:"overrides"` // sheet -> field -> column
}

// AnalyzeResponse 分析响应
type AnalyzeResponse struct {
	Token    string                    `json:"token"`
	Analyses []*analysis.TableAnalysis `json:"analyses"`
	Skipped  []SkippedSheet            `json:"skipped,omitempty"`
}

// SkippedSheet 未能分析的表及原因
type SkippedSheet struct {
	Name          string           `json:"name"`
	Reason        string           `json:"reason"`
	MissingFields []model.FieldKey `json:"missingFields,omitempty"`
}

// Analyze 对一次上传的表执行完整分析流水线并持久化结果
// POST /api/v1/upload/:token/analyze
func (h *Handler) Analyze(c *gin.Context) {
	token := c.Param("token")
	session, ok := h.uploads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "上传会话不存在或已过期"})
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	wanted := make(map[string]bool, len(req.Sheets))
	for _, name := range req.Sheets {
		wanted[name] = true
	}

	analyses := []*analysis.TableAnalysis{}
	skipped := []SkippedSheet{}

	for _, table := range session.tables {
		if len(wanted) > 0 && !wanted[table.Name] {
			continue
		}

		overrides, err := fieldOverrides(req.Overrides[table.Name])
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ta, err := h.service.AnalyzeTable(table, overrides)
		if err != nil {
			var missing *model.MissingRequiredFieldError
			if errors.As(err, &missing) {
				skipped = append(skipped, SkippedSheet{
					Name:          table.Name,
					Reason:        "缺少必需字段",
					MissingFields: missing.Fields,
				})
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "分析失败: " + err.Error()})
			return
		}

		if err := h.store.SaveAnalysis(ta, session.fileName); err != nil {
			// 持久化失败不阻断：结果仍返回并可导出
			log.Printf("保存分析结果失败 sheet=%s: %v", table.Name, err)
		}
		analyses = append(analyses, ta)
	}

	if len(analyses) == 0 && len(skipped) > 0 {
		c.JSON(http.StatusUnprocessableEntity, AnalyzeResponse{Token: token, Skipped: skipped})
		return
	}

	h.uploads.setAnalyses(token, analyses)

	c.JSON(http.StatusOK, AnalyzeResponse{
		Token:    token,
		Analyses: analyses,
		Skipped:  skipped,
	})
}

// fieldOverrides 校验并转换覆盖表的字段键
func fieldOverrides(raw map[string]string) (map[model.FieldKey]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	known := make(map[model.FieldKey]bool)
	for _, f := range model.AllFields() {
		known[f] = true
	}
	out := make(map[model.FieldKey]string, len(raw))
	for k, v := range raw {
		field := model.FieldKey(k)
		if !known[field] {
			return nil, &unknownFieldError{Field: k}
		}
		out[field] = v
	}
	return out, nil
}

type unknownFieldError struct {
	Field string
}

func (e *unknownFieldError) Error() string {
	return "未知字段: " + e.Field
}
