package httpserver

import (
	"context"
	"errors"
	"log"

	"reshambazaar/internal/domain"
	usersvc "reshambazaar/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type cartService interface {
	Add(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	Count(ctx context.Context, userID string) (int, error)
	PricedSummary(ctx context.Context, userID, couponCode string) (*domain.CartSummary, error)
}

type couponService interface {
	Validate(ctx context.Context, code string, subtotalCents int64) (domain.CouponResult, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, userID, couponCode string, addr *domain.Address) (*domain.Order, error)
}

type orderService interface {
	ListMine(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// Deps carries the services the router exposes.
type Deps struct {
	UserSvc     userService
	ProductSvc  productService
	CartSvc     cartService
	CouponSvc   couponService
	CheckoutSvc checkoutService
	OrderSvc    orderService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.UserSvc == nil || deps.ProductSvc == nil || deps.CartSvc == nil ||
		deps.CouponSvc == nil || deps.CheckoutSvc == nil || deps.OrderSvc == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	api.POST("/users/signup", signupHandler(deps.UserSvc))
	api.POST("/users/login", loginHandler(deps.UserSvc))
	api.GET("/products", listProductsHandler(deps.ProductSvc))
	api.GET("/products/:id", getProductHandler(deps.ProductSvc))
	api.GET("/coupons/validate", validateCouponHandler(deps.CouponSvc))

	authed := api.Group("", authMiddleware(deps.UserSvc))
	{
		authed.GET("/cart", getCartHandler(deps.CartSvc))
		authed.GET("/cart/count", cartCountHandler(deps.CartSvc))
		authed.POST("/cart/add", addToCartHandler(deps.CartSvc))
		authed.PUT("/cart/update", updateCartHandler(deps.CartSvc))
		authed.DELETE("/cart/clear", clearCartHandler(deps.CartSvc))
		authed.DELETE("/cart/:productId", removeFromCartHandler(deps.CartSvc))

		authed.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
		authed.GET("/orders/my", myOrdersHandler(deps.OrderSvc))

		admin := authed.Group("/admin", adminOnly())
		admin.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
	}

	return router, nil
}
