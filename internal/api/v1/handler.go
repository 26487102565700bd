package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/analysis"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	service *analysis.Service
	store   *store.Store
	uploads *uploadStore
}

// NewHandler 创建 V1 API 处理器
func NewHandler(svc *analysis.Service, st *store.Store) *Handler {
	return &Handler{
		service: svc,
		store:   st,
		uploads: newUploadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传与预览
	router.POST("/upload", h.Upload)
	router.GET("/upload/:token/preview", h.Preview)

	// 分析
	router.POST("/upload/:token/analyze", h.Analyze)

	// 历史运行
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id/mapping", h.GetRunMapping)
	router.GET("/runs/:id/records", h.GetRunRecords)
	router.GET("/runs/:id/diagnostics", h.GetRunDiagnostics)
	router.DELETE("/runs/:id", h.DeleteRun)

	// 词库
	router.GET("/tags", h.GetTagDict)

	// 报告导出
	router.GET("/upload/:token/export", h.Export)
}
