package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopassist-backend/internal/domain"
	ordersvc "shopassist-backend/internal/service/order"
)

func createOrderHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		order, err := svc.Create(c.Request.Context(), requesterID(c), in)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		items, err := svc.Expand(c.Request.Context(), *order)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusCreated, toOrderView(*order, items), "Order created successfully")
	}
}

func listOrdersHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		status := domain.OrderStatus(c.Query("status"))

		orders, pageInfo, err := svc.List(c.Request.Context(), requesterID(c), page, limit, status)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		views := make([]orderView, 0, len(orders))
		for _, o := range orders {
			items, err := svc.Expand(c.Request.Context(), o)
			if err != nil {
				respondServiceError(c, logger, err)
				return
			}
			views = append(views, toOrderView(o, items))
		}
		respondPage(c, views, pageInfo)
	}
}

func getOrderHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"), requesterID(c))
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		items, err := svc.Expand(c.Request.Context(), *order)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondData(c, http.StatusOK, toOrderView(*order, items))
	}
}

type statusUpdateRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func updateOrderStatusHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in statusUpdateRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		order, err := svc.Transition(c.Request.Context(), c.Param("id"), in.Status)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		items, err := svc.Expand(c.Request.Context(), *order)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusOK, toOrderView(*order, items), "Order status updated successfully")
	}
}

func cancelOrderHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Cancel(c.Request.Context(), c.Param("id"), requesterID(c))
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusOK, toOrderView(*order, nil), "Order cancelled successfully")
	}
}
