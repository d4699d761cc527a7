package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "Stripe-Signature"

// HandleStripeWebhook accepts provider event deliveries. Everything past
// signature and payload verification is acknowledged with 200 so the
// provider does not redeliver events we have already recorded.
func (s *Server) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.webhookSvc.Process(c.Request.Context(), payload, c.GetHeader(signatureHeader)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
