package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketfront/internal/domain"
	checkoutsvc "marketfront/internal/service/checkout"
)

type checkoutService interface {
	PlaceOrder(ctx context.Context, actor domain.Actor, in checkoutsvc.PlaceOrderInput) (*domain.Order, error)
}

// checkoutHandler accepts guest and authenticated checkouts. Expected
// failures come back as {ok:false, message}; success as {ok:true, orderId}.
func checkoutHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.PlaceOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			failJSON(c, http.StatusBadRequest, "invalid request body")
			return
		}
		actor := actorFromContext(c)
		order, err := svc.PlaceOrder(c.Request.Context(), actor, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"ok":          true,
			"orderId":     order.ID,
			"orderNumber": order.OrderNumber,
		})
	}
}
