package server

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduforge/mathcore/backend/internal/engine"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// domains lists the routable operation namespaces.
var domains = map[string]bool{
	"calculus": true,
	"algebra":  true,
	"matrices": true,
	"geometry": true,
	"trig":     true,
}

// Root describes the service.
func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "mathcore",
		"domains": []string{"calculus", "algebra", "matrices", "geometry", "trig"},
	})
}

// Health reports liveness and cache statistics.
func (s *Server) Health(c *gin.Context) {
	hits, misses := s.engine.CacheStats()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"cache_hits":   hits,
		"cache_misses": misses,
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}

// Compute decodes the request body and dispatches one engine operation.
// Computation failures stay HTTP 200: the envelope's status field carries
// the outcome. Only transport problems produce non-200 responses.
func (s *Server) Compute(c *gin.Context) {
	domain := c.Param("domain")
	name := c.Param("operation")
	if !domains[domain] {
		s.writeEnvelope(c, result.Error(domain+"."+name, result.KindUnsupported,
			"unknown domain %q", domain))
		return
	}

	params := engine.Params{}
	if c.Request.ContentLength != 0 {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
			return
		}
		if len(body) > 0 {
			if err := sonic.Unmarshal(body, &params); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed JSON body"})
				return
			}
		}
	}

	operation := domain + "." + name
	s.log.Info("compute",
		zap.String("operation", operation),
		zap.String("request_id", c.GetString("request_id")))
	s.writeEnvelope(c, s.engine.Do(operation, params))
}

func (s *Server) writeEnvelope(c *gin.Context, res *result.Computation) {
	data, err := sonic.Marshal(res)
	if err != nil {
		s.log.Error("envelope marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "serialization failed"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
