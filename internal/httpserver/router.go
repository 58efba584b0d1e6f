package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopassist-backend/internal/domain"
	catalogsvc "shopassist-backend/internal/service/catalog"
	ordersvc "shopassist-backend/internal/service/order"
	profilesvc "shopassist-backend/internal/service/profile"
)

// Service interfaces consumed by the handlers; the concrete implementations
// live under internal/service.

type CatalogService interface {
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Featured(ctx context.Context, page, limit int) ([]domain.Product, int, error)
	Recommendations(ctx context.Context, limit int) ([]catalogsvc.Recommendation, error)
	Sync(ctx context.Context, products []domain.Product) ([]domain.Product, error)
}

type OrderService interface {
	Create(ctx context.Context, requesterID string, in ordersvc.CreateInput) (*domain.Order, error)
	Transition(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, requesterID string) (*domain.Order, error)
	List(ctx context.Context, requesterID string, page, limit int, status domain.OrderStatus) ([]domain.Order, ordersvc.PageInfo, error)
	Get(ctx context.Context, orderID, requesterID string) (*domain.Order, error)
	Expand(ctx context.Context, o domain.Order) ([]ordersvc.ItemDetail, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in profilesvc.ProfileUpdate) (*domain.User, error)
	UpdatePreferences(ctx context.Context, userID string, in profilesvc.PreferencesUpdate) (*domain.User, error)
	AddAddress(ctx context.Context, userID string, addr domain.Address) (*domain.User, error)
	UpdateAddress(ctx context.Context, userID string, index int, in profilesvc.AddressUpdate) (*domain.User, error)
	DeleteAddress(ctx context.Context, userID string, index int) (*domain.User, error)
}

type AuthService interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Deps bundles everything the router needs.
type Deps struct {
	CatalogSvc  CatalogService
	OrderSvc    OrderService
	ProfileSvc  ProfileService
	AuthSvc     AuthService
	AdminKey    string
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.CORSOrigins) == 0 || (len(deps.CORSOrigins) == 1 && deps.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Admin-Key")
	router.Use(cors.New(corsCfg))

	router.GET("/health", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	products := api.Group("/products")
	products.GET("/search", authOptional(deps.AuthSvc), searchProductHandler(logger, deps.CatalogSvc))
	products.GET("/featured", authOptional(deps.AuthSvc), featuredProductsHandler(logger, deps.CatalogSvc))
	products.GET("/recommendations", authOptional(deps.AuthSvc), recommendationsHandler(logger, deps.CatalogSvc))
	products.POST("/sync", adminOnly(deps.AdminKey), syncProductsHandler(logger, deps.CatalogSvc))
	products.GET("/:id", authOptional(deps.AuthSvc), getProductHandler(logger, deps.CatalogSvc))

	orders := api.Group("/orders")
	orders.POST("", authOptional(deps.AuthSvc), createOrderHandler(logger, deps.OrderSvc))
	orders.GET("", authRequired(deps.AuthSvc), listOrdersHandler(logger, deps.OrderSvc))
	orders.GET("/:id", authRequired(deps.AuthSvc), getOrderHandler(logger, deps.OrderSvc))
	orders.PUT("/:id/status", adminOnly(deps.AdminKey), updateOrderStatusHandler(logger, deps.OrderSvc))
	orders.DELETE("/:id", authRequired(deps.AuthSvc), cancelOrderHandler(logger, deps.OrderSvc))

	users := api.Group("/users", authRequired(deps.AuthSvc))
	users.GET("/profile", getProfileHandler(logger))
	users.PUT("/profile", updateProfileHandler(logger, deps.ProfileSvc))
	users.GET("/preferences", getPreferencesHandler(logger))
	users.PUT("/preferences", updatePreferencesHandler(logger, deps.ProfileSvc))
	users.POST("/addresses", addAddressHandler(logger, deps.ProfileSvc))
	users.PUT("/addresses/:index", updateAddressHandler(logger, deps.ProfileSvc))
	users.DELETE("/addresses/:index", deleteAddressHandler(logger, deps.ProfileSvc))

	return router
}
