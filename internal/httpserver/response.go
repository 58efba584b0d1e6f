package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopassist-backend/internal/domain"
	ordersvc "shopassist-backend/internal/service/order"
)

// envelope is the shared response shape.
type envelope struct {
	Success    bool               `json:"success"`
	Data       interface{}        `json:"data,omitempty"`
	Error      string             `json:"error,omitempty"`
	Message    string             `json:"message,omitempty"`
	Pagination *ordersvc.PageInfo `json:"pagination,omitempty"`
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func respondPage(c *gin.Context, data interface{}, page ordersvc.PageInfo) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: &page})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, envelope{Success: false, Error: msg})
}

// respondServiceError maps domain sentinels onto HTTP statuses. Unexpected
// failures are logged and downgraded to a generic 500.
func respondServiceError(c *gin.Context, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrVersionConflict):
		respondError(c, http.StatusConflict, "concurrent update, please retry")
	default:
		logger.Printf("http: internal error path=%s error=%v", c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
