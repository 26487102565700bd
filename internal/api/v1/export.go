package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/excel"
)

// Export 导出最近一次分析的多表 Excel 报告
// GET /api/v1/upload/:token/export
func (h *Handler) Export(c *gin.Context) {
	session, ok := h.uploads.get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "上传会话不存在或已过期"})
		return
	}
	if len(session.analyses) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "该上传尚未执行分析"})
		return
	}

	report, err := excel.BuildReport(session.analyses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成报告失败: " + err.Error()})
		return
	}
	defer report.Close()

	fileName := fmt.Sprintf("market_report_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))

	if err := report.Write(c.Writer); err != nil {
		// 响应头已发出，只能记录
		_ = c.Error(err)
	}
}
