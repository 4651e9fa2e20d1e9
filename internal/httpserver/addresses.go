package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketfront/internal/domain"
)

type addressReader interface {
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
}

func listAddressesHandler(svc addressReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFromContext(c)
		addresses, err := svc.ListAddresses(c.Request.Context(), actor.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if addresses == nil {
			addresses = []domain.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}
