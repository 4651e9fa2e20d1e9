package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketfront/internal/domain"
	ordersvc "marketfront/internal/service/order"
)

type orderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListVendorOrders(ctx context.Context, vendorID string) ([]domain.VendorOrder, error)
	UpdateStatus(ctx context.Context, orderID string, update ordersvc.StatusUpdate) error
	UpdateVendorStatus(ctx context.Context, vendorOrderID string, update ordersvc.StatusUpdate) error
	MarkPaid(ctx context.Context, orderID string) error
	Refund(ctx context.Context, orderID string, partial bool, description string) error
	Tracking(ctx context.Context, orderID string) ([]domain.TrackingEvent, error)
}

// failReason mirrors the status-update contract: {ok:false, reason}.
func failReason(c *gin.Context, status int, reason string) {
	c.JSON(status, gin.H{"ok": false, "reason": reason})
}

func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		actor := actorFromContext(c)
		if actor.Authenticated() && actor.Role == domain.RoleUser && order.UserID != actor.ID {
			failJSON(c, http.StatusNotFound, "not found")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFromContext(c)
		orders, err := svc.ListByUser(c.Request.Context(), actor.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func trackingHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := svc.Tracking(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if events == nil {
			events = []domain.TrackingEvent{}
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

func updateOrderStatusHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update ordersvc.StatusUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			failReason(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), update); err != nil {
			if status, ok := businessStatus(err); ok {
				failReason(c, status, err.Error())
				return
			}
			failReason(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func updateVendorStatusHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update ordersvc.StatusUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			failReason(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := svc.UpdateVendorStatus(c.Request.Context(), c.Param("id"), update); err != nil {
			if status, ok := businessStatus(err); ok {
				failReason(c, status, err.Error())
				return
			}
			failReason(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func markPaidHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.MarkPaid(c.Request.Context(), c.Param("id")); err != nil {
			if status, ok := businessStatus(err); ok {
				failReason(c, status, err.Error())
				return
			}
			failReason(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

type refundRequest struct {
	Partial     bool   `json:"partial"`
	Description string `json:"description"`
}

func refundHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in refundRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			failReason(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := svc.Refund(c.Request.Context(), c.Param("id"), in.Partial, in.Description); err != nil {
			if status, ok := businessStatus(err); ok {
				failReason(c, status, err.Error())
				return
			}
			failReason(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func listVendorOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorOrders, err := svc.ListVendorOrders(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if vendorOrders == nil {
			vendorOrders = []domain.VendorOrder{}
		}
		c.JSON(http.StatusOK, gin.H{"vendorOrders": vendorOrders})
	}
}
