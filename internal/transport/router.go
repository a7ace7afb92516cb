package transport

import (
	"context"
	"net/http"

	"spareparts-be/internal/logger"
	"spareparts-be/internal/middleware"
	"spareparts-be/internal/user"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	staff     = []user.Role{user.RoleAdmin, user.RoleStoreOwner}
	operators = []user.Role{user.RoleAdmin, user.RoleStoreOwner, user.RoleDeliveryStaff}
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Parts      *SparePartHandler
	Orders     *OrderHandler
	Deliveries *DeliveryHandler
	Warranties *WarrantyHandler
	Claims     *ClaimHandler
	Feedback   *FeedbackHandler
	System     *SystemHandler
}

func NewRouter(h Handlers, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(corsOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	authOnly := middleware.RequireAuth()
	staffOnly := middleware.RequireRoles(staff...)
	adminOnly := middleware.RequireRoles(user.RoleAdmin)
	customerOnly := middleware.RequireRoles(user.RoleCustomer)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
	}

	users := api.Group("/users", adminOnly)
	{
		users.GET("", h.Users.List)
		users.POST("", h.Users.Create)
		users.GET("/role/:role", h.Users.ListByRole)
		users.GET("/:id", h.Users.Get)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
		users.PUT("/:id/activate", h.Users.Activate)
		users.PUT("/:id/deactivate", h.Users.Deactivate)
	}

	riders := api.Group("/delivery-boys")
	{
		riders.POST("/register", staffOnly, h.Users.RegisterStaff)
		riders.GET("", staffOnly, h.Users.ListStaff)
		riders.GET("/:id", middleware.RequireRoles(operators...), h.Users.GetStaff)
		riders.PUT("/:id", middleware.RequireRoles(operators...), h.Users.UpdateStaff)
	}

	parts := api.Group("/spareparts")
	{
		parts.GET("", h.Parts.ListActive)
		parts.GET("/search", h.Parts.Search)
		parts.GET("/categories", h.Parts.ListCategories)
		parts.GET("/category/:category", h.Parts.ListByCategory)
		parts.GET("/number/:partNumber", h.Parts.GetByNumber)
		parts.GET("/:id", h.Parts.Get)

		parts.GET("/all", staffOnly, h.Parts.ListAll)
		parts.GET("/low-stock", staffOnly, h.Parts.ListLowStock)
		parts.GET("/export", staffOnly, h.Parts.Export)
		parts.POST("", staffOnly, h.Parts.Create)
		parts.PUT("/:id", staffOnly, h.Parts.Update)
		parts.PUT("/:id/stock", staffOnly, h.Parts.AdjustStock)
		parts.DELETE("/:id", adminOnly, h.Parts.Delete)
	}

	orders := api.Group("/orders", authOnly)
	{
		orders.POST("", customerOnly, h.Orders.Create)
		orders.GET("/my-orders", customerOnly, h.Orders.MyOrders)
		orders.GET("/customer/:customerId", h.Orders.ListForCustomer)
		orders.GET("/:id", h.Orders.Get)

		orders.GET("", staffOnly, h.Orders.List)
		orders.GET("/status/:status", staffOnly, h.Orders.ListByStatus)
		orders.PUT("/:id/approve", staffOnly, h.Orders.Approve)
		orders.PUT("/:id/status", staffOnly, h.Orders.UpdateStatus)
	}

	deliveries := api.Group("/deliveries", middleware.RequireRoles(operators...))
	{
		deliveries.GET("/my-deliveries", middleware.RequireRoles(user.RoleDeliveryStaff), h.Deliveries.MyDeliveries)
		deliveries.GET("/:id", h.Deliveries.Get)
		deliveries.GET("/order/:orderId", h.Deliveries.GetByOrder)
		deliveries.PUT("/:id/status", h.Deliveries.UpdateStatus)

		deliveries.GET("", staffOnly, h.Deliveries.List)
		deliveries.GET("/status/:status", staffOnly, h.Deliveries.ListByStatus)
		deliveries.PUT("/:id/assign", staffOnly, h.Deliveries.Assign)
		deliveries.PUT("/:id", staffOnly, h.Deliveries.UpdateDetails)
		deliveries.DELETE("/:id", adminOnly, h.Deliveries.Delete)
	}

	warranties := api.Group("/warranties", authOnly)
	{
		warranties.GET("/my-warranties", customerOnly, h.Warranties.MyWarranties)
		warranties.GET("/active", customerOnly, h.Warranties.Active)
		warranties.POST("/:id/claim", customerOnly, h.Warranties.FileClaim)

		warranties.GET("/all", staffOnly, h.Warranties.ListAll)
		warranties.GET("/pending-claims", staffOnly, h.Warranties.PendingClaims)
		warranties.GET("/stats", staffOnly, h.Warranties.Stats)
		warranties.GET("/expiring", staffOnly, h.Warranties.Expiring)
		warranties.POST("/notify-expiring", adminOnly, h.Warranties.NotifyExpiring)
		warranties.POST("/create", staffOnly, h.Warranties.CreateManual)
		warranties.PUT("/:id/approve-claim", staffOnly, h.Warranties.ApproveClaim)
		warranties.PUT("/:id/reject-claim", staffOnly, h.Warranties.RejectClaim)
		warranties.PUT("/:id", staffOnly, h.Warranties.UpdateNotes)
		warranties.DELETE("/:id", adminOnly, h.Warranties.Delete)

		warranties.GET("/number/:number", h.Warranties.GetByNumber)
		warranties.GET("/:id/valid", h.Warranties.Valid)
		warranties.GET("/:id", h.Warranties.Get)
	}

	claims := api.Group("/warranty-claims", authOnly)
	{
		claims.POST("/create", customerOnly, h.Claims.Create)
		claims.GET("/my-claims", customerOnly, h.Claims.MyClaims)
		claims.PUT("/:id", customerOnly, h.Claims.Update)
		claims.DELETE("/:id", customerOnly, h.Claims.Delete)
		claims.GET("/:id", h.Claims.Get)

		claims.GET("/all", staffOnly, h.Claims.ListAll)
		claims.GET("/status/:status", staffOnly, h.Claims.ListByStatus)
		claims.PUT("/:id/review", staffOnly, h.Claims.StartReview)
		claims.PUT("/:id/approve", staffOnly, h.Claims.Approve)
		claims.PUT("/:id/reject", staffOnly, h.Claims.Reject)
		claims.PUT("/:id/complete", staffOnly, h.Claims.Complete)
	}

	fb := api.Group("/feedback", authOnly)
	{
		fb.POST("/create", customerOnly, h.Feedback.Create)
		fb.GET("/my-feedback", customerOnly, h.Feedback.MyFeedback)
		fb.GET("/:id", h.Feedback.Get)

		fb.GET("/all", staffOnly, h.Feedback.ListAll)
		fb.GET("/customer/:customerId", staffOnly, h.Feedback.ListForCustomer)
		fb.PUT("/:id/mark-read", staffOnly, h.Feedback.MarkRead)
		fb.PUT("/:id/respond", staffOnly, h.Feedback.Respond)
		fb.DELETE("/:id", adminOnly, h.Feedback.Delete)
	}

	system := api.Group("/design-patterns")
	{
		system.GET("/reports/available", h.System.ReportTypes)
		system.GET("/reports/:type", staffOnly, h.System.Report)
		system.GET("/payment-methods", h.System.PaymentMethods)
		system.GET("/delivery-methods", h.System.DeliveryMethods)
		system.GET("/observers", staffOnly, h.System.Observers)
	}

	return r
}

// Handler wraps the gin engine with request id, auth, account checks, logging
// and rate limiting. The limiter's janitor stops when ctx is cancelled.
func Handler(ctx context.Context, engine http.Handler, accounts middleware.AccountLookup) http.Handler {
	limiter := middleware.NewRateLimiter(ctx)
	return logger.RequestIDMiddleware(
		middleware.AuthMiddleware(
			middleware.ActiveAccount(accounts)(
				logger.LoggingMiddleware(
					limiter.Middleware(engine),
				),
			),
		),
	)
}
