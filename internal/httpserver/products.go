package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketfront/internal/domain"
)

type catalogReader interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

func listProductsHandler(catalog catalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.ListProducts(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(catalog catalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
