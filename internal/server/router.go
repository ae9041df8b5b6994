// Package server exposes the gateway over HTTP with gin.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/coursewiz/internal/gateway"
	"github.com/abhisek/coursewiz/internal/logger"
)

type RouterConfig struct {
	AIHandler *AIHandler
	Log       *logger.Logger
	// AllowOrigins lists browser origins allowed by CORS. Empty allows all.
	AllowOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthCheck)

	ai := cfg.AIHandler
	router.POST(gateway.StructuresPath, ai.Structures)
	router.POST(gateway.SuggestionsPath, ai.Suggestions)
	router.GET(gateway.ModelsPath, ai.Models)

	for _, path := range []string{gateway.StructuresPath, gateway.SuggestionsPath} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			router.Handle(method, path, postOnly)
		}
	}

	return router
}

// requestLogger logs one line per request.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			kv = append(kv, "errors", strings.TrimSpace(errs))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("http request", kv...)
			return
		}
		log.Info("http request", kv...)
	}
}
