package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/adgm-compliance-system/api/handler"
	"github.com/fyerfyer/adgm-compliance-system/api/middleware"
)

// Handlers 路由依赖的接口处理器集合
type Handlers struct {
	Query  *handler.QueryHandler
	Review *handler.ReviewHandler
	Corpus *handler.CorpusHandler
}

// SetupRouter 配置HTTP路由
func SetupRouter(mode string, handlers Handlers) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	router := gin.New()

	router.Use(middleware.SetTraceID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())
	router.Use(middleware.Cors())

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/query", handlers.Query.Query)

		v1.POST("/review", handlers.Review.Review)
		v1.GET("/review/:id", handlers.Review.GetReview)
		v1.GET("/reviews", handlers.Review.ListReviews)

		corpus := v1.Group("/corpus")
		{
			corpus.POST("/rebuild", handlers.Corpus.Rebuild)
			corpus.GET("/status", handlers.Corpus.Status)
			corpus.GET("/sources", handlers.Corpus.Sources)
		}
	}

	return router
}
