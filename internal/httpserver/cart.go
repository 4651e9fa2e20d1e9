package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketfront/internal/domain"
	cartsvc "marketfront/internal/service/cart"
)

type cartService interface {
	Add(ctx context.Context, userID string, in cartsvc.AddInput) error
	List(ctx context.Context, userID string) ([]domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID string, n int) error
	Remove(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

func listCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFromContext(c)
		items, err := svc.List(c.Request.Context(), actor.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		totalQty := 0
		var subtotal int64
		for _, item := range items {
			totalQty += item.Quantity
			subtotal += item.UnitPriceCents * int64(item.Quantity)
		}
		if items == nil {
			items = []domain.CartItem{}
		}
		c.JSON(http.StatusOK, gin.H{
			"items":         items,
			"totalQuantity": totalQty,
			"subtotalCents": subtotal,
		})
	}
}

func addCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddInput
		if err := c.ShouldBindJSON(&in); err != nil {
			failJSON(c, http.StatusBadRequest, "invalid request body")
			return
		}
		actor := actorFromContext(c)
		if err := svc.Add(c.Request.Context(), actor.ID, in); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func setCartQuantityHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in setQuantityRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			failJSON(c, http.StatusBadRequest, "invalid request body")
			return
		}
		actor := actorFromContext(c)
		if err := svc.SetQuantity(c.Request.Context(), actor.ID, c.Param("id"), in.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func removeCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFromContext(c)
		if err := svc.Remove(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func clearCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFromContext(c)
		if err := svc.Clear(c.Request.Context(), actor.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
