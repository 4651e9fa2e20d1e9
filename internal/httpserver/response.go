package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketfront/internal/domain"
)

// Expected failures cross the boundary as {ok:false, message}; only
// infrastructure errors surface as 500s.

func failJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "message": message})
}

// businessStatus maps a domain sentinel to an HTTP status. The second
// return is false for unexpected (infrastructure) errors.
func businessStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrIllegalTransition):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidCartContents),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrVariantUnavailable):
		return http.StatusUnprocessableEntity, true
	}
	return 0, false
}

func respondError(c *gin.Context, err error) {
	if status, ok := businessStatus(err); ok {
		failJSON(c, status, err.Error())
		return
	}
	failJSON(c, http.StatusInternalServerError, "internal error")
}
