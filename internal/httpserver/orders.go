package httpserver

import (
	"errors"
	"io"
	"net/http"

	"reshambazaar/internal/domain"
	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	CouponCode string          `json:"couponCode"`
	Address    *domain.Address `json:"address"`
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

func checkoutHandler(checkouts checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req checkoutRequest
		// An empty body is a plain no-coupon, no-address checkout.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		order, err := checkouts.Checkout(c.Request.Context(), u.ID, req.CouponCode, req.Address)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func myOrdersHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		list, err := orders.ListMine(c.Request.Context(), u.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, list)
	}
}

func updateOrderStatusHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "status required"})
			return
		}
		if err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
