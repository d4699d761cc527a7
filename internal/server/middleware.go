package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentRateLimit throttles payment attempts per client IP. A failing
// limiter backend fails open so redis downtime does not block checkout.
func (s *Server) PaymentRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := s.rateLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("rate limiter unavailable, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
