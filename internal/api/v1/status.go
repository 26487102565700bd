package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized   bool   `json:"initialized"`   // 是否有历史分析数据
	TotalRuns     int    `json:"totalRuns"`     // 运行总数
	LastSheetName string `json:"lastSheetName"` // 最近一次分析的表名
	LastRunTime   string `json:"lastRunTime"`   // 最近一次分析时间
}

// GetStatus 获取系统状态
// GET /api/v1/status
func (h *Handler) GetStatus(c *gin.Context) {
	runs, err := h.store.ListRuns(0)
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{Initialized: false})
		return
	}

	resp := StatusResponse{
		Initialized: len(runs) > 0,
		TotalRuns:   len(runs),
	}
	if len(runs) > 0 {
		resp.LastSheetName = runs[0].SheetName
		resp.LastRunTime = runs[0].CreatedAt.Format("2006-01-02 15:04:05")
	}

	c.JSON(http.StatusOK, resp)
}

// GetTagDict 返回当前生效的标签词库
// GET /api/v1/tags
func (h *Handler) GetTagDict(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": h.service.TagDict()})
}
