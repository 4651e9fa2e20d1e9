package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketfront/internal/domain"
)

// Deps carries the services the handlers close over.
type Deps struct {
	AuthSvc     authService
	CatalogSvc  catalogReader
	CartSvc     cartService
	CheckoutSvc checkoutService
	OrderSvc    orderService
	AddressSvc  addressReader
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/signup", signupHandler(deps.AuthSvc))
	router.POST("/login", loginHandler(deps.AuthSvc))

	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))

	authed := router.Group("/", actorMiddleware(deps.AuthSvc))
	{
		authed.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
		authed.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
		authed.GET("/orders/:id/tracking", trackingHandler(deps.OrderSvc))

		me := authed.Group("/me", requireActor())
		{
			me.GET("/orders", listOrdersHandler(deps.OrderSvc))
			me.GET("/addresses", listAddressesHandler(deps.AddressSvc))
			me.GET("/cart", listCartHandler(deps.CartSvc))
			me.POST("/cart/items", addCartItemHandler(deps.CartSvc))
			me.PATCH("/cart/items/:id", setCartQuantityHandler(deps.CartSvc))
			me.DELETE("/cart/items/:id", removeCartItemHandler(deps.CartSvc))
			me.DELETE("/cart", clearCartHandler(deps.CartSvc))
		}

		ops := authed.Group("/", requireActor())
		{
			ops.POST("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
			ops.POST("/orders/:id/pay", markPaidHandler(deps.OrderSvc))
			ops.POST("/orders/:id/refund", refundHandler(deps.OrderSvc))
			ops.POST("/vendor-orders/:id/status", updateVendorStatusHandler(deps.OrderSvc))
			ops.GET("/vendors/:id/orders", listVendorOrdersHandler(deps.OrderSvc))
		}
	}

	return router
}

type actorCtxKeyType struct{}

var actorCtxKey actorCtxKeyType

func actorFromContext(c *gin.Context) domain.Actor {
	if actor, ok := c.Request.Context().Value(actorCtxKey).(domain.Actor); ok {
		return actor
	}
	return domain.Actor{}
}

func setActor(c *gin.Context, actor domain.Actor) {
	ctx := context.WithValue(c.Request.Context(), actorCtxKey, actor)
	c.Request = c.Request.WithContext(ctx)
}
