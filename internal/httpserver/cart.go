package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cartLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		summary, err := carts.PricedSummary(c.Request.Context(), u.ID, c.Query("coupon"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func cartCountHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		count, err := carts.Count(c.Request.Context(), u.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

func addToCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId required"})
			return
		}
		if err := carts.Add(c.Request.Context(), u.ID, req.ProductID, req.Quantity); err != nil {
			respondError(c, err)
			return
		}
		summary, err := carts.PricedSummary(c.Request.Context(), u.ID, "")
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func updateCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId required"})
			return
		}
		if err := carts.SetQuantity(c.Request.Context(), u.ID, req.ProductID, req.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func removeFromCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if err := carts.Remove(c.Request.Context(), u.ID, c.Param("productId")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if err := carts.Clear(c.Request.Context(), u.ID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
