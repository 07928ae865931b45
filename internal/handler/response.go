package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawhaus/service-boarding/internal/domain"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

func respondPaginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "badRequest", Message: message}})
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": errorBody{Code: "unauthorized", Message: "missing principal"}})
}

// respondError maps domain errors onto HTTP status codes; anything that is
// not a domain error becomes a 500.
func respondError(c *gin.Context, err error) {
	if derr := domain.AsDomainError(err); derr != nil {
		status := http.StatusInternalServerError
		switch derr.Kind {
		case domain.KindValidation:
			status = http.StatusBadRequest
		case domain.KindForbidden:
			status = http.StatusForbidden
		case domain.KindNotFound:
			status = http.StatusNotFound
		case domain.KindConflict:
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": errorBody{Code: derr.Code, Message: derr.Message}})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{Code: "internal", Message: "internal server error"}})
}
