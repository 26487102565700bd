package server

import (
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	v1 "github.com/guanbeimark-eng/toothpaste-market-analysis/internal/api/v1"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/config"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/parser"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/analysis"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	v1     *v1.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "market.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	svc := analysis.NewService(analysisOptions(cfg))
	v1Handler := v1.NewHandler(svc, sqliteStore)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		v1:     v1Handler,
	}

	s.setupRoutes()

	return s
}

// analysisOptions 把配置文件里的分析参数落到服务选项上
func analysisOptions(cfg *config.AppConfig) analysis.Options {
	opts := analysis.DefaultOptions()
	a := cfg.Analysis

	if len(a.PriceBandBounds) > 0 {
		opts.Normalizer.PriceBandBounds = a.PriceBandBounds
	}
	if a.GramsPerML > 0 {
		opts.Normalizer.UnitToGrams = parser.UnitsWithDensity(a.GramsPerML)
	}
	if a.TopBrands > 0 {
		opts.TopBrands = a.TopBrands
	}
	if a.TopSKUs > 0 {
		opts.TopSKUs = a.TopSKUs
	}
	if a.MinDecileRows > 0 {
		opts.MinDecileRows = a.MinDecileRows
	}
	if a.ComboLimit > 0 {
		opts.ComboLimit = a.ComboLimit
	}
	if a.GapLimit > 0 {
		opts.GapLimit = a.GapLimit
	}
	if a.RiskLimit > 0 {
		opts.RiskLimit = a.RiskLimit
	}

	return opts
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// V1 API 路由
	api := s.router.Group("/api/v1")
	{
		s.v1.RegisterRoutes(api)
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层存储
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
