package httpserver

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shopassist-backend/internal/domain"
	ordersvc "shopassist-backend/internal/service/order"
)

func searchProductHandler(logger *log.Logger, svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Query("code"))
		if code == "" {
			respondError(c, http.StatusBadRequest, "Product code is required")
			return
		}
		p, err := svc.FindByCode(c.Request.Context(), code)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondData(c, http.StatusOK, toProductView(*p))
	}
}

func getProductHandler(logger *log.Logger, svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondData(c, http.StatusOK, toProductView(*p))
	}
}

func featuredProductsHandler(logger *log.Logger, svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		products, total, err := svc.Featured(c.Request.Context(), page, limit)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}
		respondPage(c, toProductViews(products), ordersvc.PageInfo{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		})
	}
}

func recommendationsHandler(logger *log.Logger, svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		recs, err := svc.Recommendations(c.Request.Context(), limit)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondData(c, http.StatusOK, recs)
	}
}

func syncProductsHandler(logger *log.Logger, svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []domain.Product
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&products); err != nil {
				respondError(c, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		synced, err := svc.Sync(c.Request.Context(), products)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusOK, toProductViews(synced), "Synced "+strconv.Itoa(len(synced))+" products")
	}
}
