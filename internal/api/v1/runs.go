package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListRuns 列出历史分析运行
// GET /api/v1/runs
func (h *Handler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询运行记录失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

// GetRunMapping 取某次运行的列映射（自动结果与最终选择）
// GET /api/v1/runs/:id/mapping
func (h *Handler) GetRunMapping(c *gin.Context) {
	auto, chosen, err := h.store.GetRunMapping(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询映射失败: " + err.Error()})
		return
	}
	if len(chosen) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "运行不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"autoMapping":   auto,
		"chosenMapping": chosen,
	})
}

// GetRunRecords 取某次运行的归一化记录
// GET /api/v1/runs/:id/records
func (h *Handler) GetRunRecords(c *gin.Context) {
	records, err := h.store.GetRunRecords(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询记录失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

// GetRunDiagnostics 取某次运行的数值字段诊断
// GET /api/v1/runs/:id/diagnostics
func (h *Handler) GetRunDiagnostics(c *gin.Context) {
	diags, err := h.store.GetRunDiagnostics(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询诊断失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"diagnostics": diags})
}

// DeleteRun 删除一次运行及其全部数据
// DELETE /api/v1/runs/:id
func (h *Handler) DeleteRun(c *gin.Context) {
	if err := h.store.DeleteRun(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
