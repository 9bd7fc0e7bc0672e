package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// validateCouponHandler is anonymous so the cart page can preview a coupon
// before login.
func validateCouponHandler(coupons couponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		subtotal, err := strconv.ParseInt(strings.TrimSpace(c.Query("subtotal")), 10, 64)
		if err != nil || subtotal < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "subtotal must be a non-negative integer of cents"})
			return
		}
		result, err := coupons.Validate(c.Request.Context(), code, subtotal)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
