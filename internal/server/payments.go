package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/stayware/stayflow/internal/payment/domain"
)

// Charge collects payment for a reservation with a provider payment token.
func (s *Server) Charge(c *gin.Context) {
	var req paymentdomain.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.Charge(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateCheckoutSession opens a hosted checkout session for a reservation.
func (s *Server) CreateCheckoutSession(c *gin.Context) {
	var req paymentdomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.CreateCheckout(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
