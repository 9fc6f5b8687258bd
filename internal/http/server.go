// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farecast/internal/http/handlers"
	"farecast/internal/http/middleware"
	"farecast/internal/modules/assets"
	"farecast/internal/modules/estimator"
	"farecast/internal/modules/session"
	"farecast/internal/modules/trips"
)

type ServerDeps struct {
	Sessions       *session.Manager
	Estimator      *estimator.Service
	Assets         *assets.Catalog
	StaticSource   trips.Source
	DBSource       trips.Source
	CORSOrigins    []string
	MaxUploadBytes int64
}

type Server struct {
	session  *handlers.SessionHandler
	estimate *handlers.EstimateHandler
	catalog  *handlers.CatalogHandler
	origins  []string
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		session:  handlers.NewSessionHandler(deps.Sessions, deps.StaticSource, deps.DBSource, deps.MaxUploadBytes),
		estimate: handlers.NewEstimateHandler(deps.Sessions, deps.Estimator),
		catalog:  handlers.NewCatalogHandler(deps.Assets),
		origins:  deps.CORSOrigins,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging(), middleware.Metrics())
	if len(s.origins) > 0 {
		r.Use(middleware.CORS(s.origins))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/assets/:name", s.catalog.Serve)

	api := r.Group("/api")
	{
		api.GET("/comparison", s.catalog.Comparison)
		api.GET("/assets", s.catalog.Assets)

		api.POST("/sessions", s.session.Create)
		api.GET("/sessions/:id", s.session.Get)
		api.DELETE("/sessions/:id", s.session.Delete)
		api.PUT("/sessions/:id/dataset", s.session.Upload)
		api.POST("/sessions/:id/dataset/static", s.session.LoadStatic)
		api.POST("/sessions/:id/dataset/db", s.session.LoadDB)
		api.GET("/sessions/:id/eda", s.estimate.EDA)
		api.POST("/sessions/:id/estimate", s.estimate.Estimate)
	}
	return r
}
