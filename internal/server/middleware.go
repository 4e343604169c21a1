package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"reelgrab/pkg/logger"
)

// loggingMiddleware logs every request through the shared request logger
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := float64(time.Since(start).Microseconds()) / 1000
		logger.LogRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed)
	}
}
