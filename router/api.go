package router

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/handlers"
	"github.com/jpk1234556/machacoshostels/internal/config"
	"github.com/jpk1234556/machacoshostels/internal/metrics"
	"github.com/jpk1234556/machacoshostels/services"
)

func NewGinRouter(pg *sql.DB, rdb *redis.Client) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	metrics.Register()
	r.Use(metrics.Middleware())

	// Initialize authz components
	authorizer := authz.NewSimpleAuthorizer(pg)
	roleStore := authz.NewRoleStore(pg)
	authzMiddleware := authz.NewAuthzMiddleware(authorizer)

	// Initialize services
	profileService := services.NewProfileService(pg, roleStore)
	notificationService, _ := services.NewNotificationService(pg)
	approvalService := services.NewApprovalService(pg, notificationService)
	propertyService := services.NewPropertyService(pg, authorizer)
	unitService := services.NewUnitService(pg, authorizer)
	tenantService := services.NewTenantService(pg, authorizer)
	leaseService := services.NewLeaseService(pg, authorizer, unitService)
	paymentService := services.NewPaymentService(pg, authorizer)
	maintenanceService := services.NewMaintenanceService(pg, authorizer, notificationService)
	dashboardService := services.NewDashboardService(pg, rdb, authorizer)
	storageService := services.NewStorageService(authorizer, profileService)

	// Initialize handlers
	guardHandler := handlers.NewGuardHandler(authorizer)
	profileHandler := handlers.NewProfileHandler(profileService)
	adminHandler := handlers.NewAdminHandler(profileService, approvalService, roleStore)
	propertyHandler := handlers.NewPropertyHandler(propertyService)
	unitHandler := handlers.NewUnitHandler(unitService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	leaseHandler := handlers.NewLeaseHandler(leaseService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	storageHandler := handlers.NewStorageHandler(storageService)

	// Initialize middleware
	supabaseAuthMiddleware := handlers.NewSupabaseAuthMiddleware(profileService)

	// PUBLIC ENDPOINTS (no authentication required)

	r.GET("/env", func(c *gin.Context) {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
		}

		supabaseURL := config.App.PublicSupabaseURL
		if supabaseURL == "" {
			supabaseURL = config.App.SupabaseURL
		}

		c.JSON(200, gin.H{
			"env":               env,
			"supabase_url":      supabaseURL,
			"supabase_anon_key": config.App.SupabaseAnonKey,
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// AUTHENTICATED ENDPOINTS (valid token; approval not yet required)
	authed := r.Group("/api")
	authed.Use(supabaseAuthMiddleware.RequireAuth())
	{
		// Session state and own profile work for pending/rejected owners too,
		// so the client can render the blocking screens.
		authed.GET("/session", guardHandler.GetSession)
		authed.GET("/profile", profileHandler.GetProfile)
		authed.PUT("/profile", profileHandler.UpdateProfile)
		authed.POST("/profile/fcm-token", profileHandler.RegisterFCMToken)
		authed.POST("/profile/id-document", storageHandler.UploadIDDocument)
	}

	// GUARDED ENDPOINTS (approved owners and admins only)
	guarded := authed.Group("/")
	guarded.Use(guardHandler.RequireApproved())
	{
		propertyRoutes := guarded.Group("/properties")
		{
			propertyRoutes.GET("", propertyHandler.ListProperties)
			propertyRoutes.POST("", propertyHandler.CreateProperty)
			propertyRoutes.GET("/:id", authzMiddleware.RequireOwnership(authz.ResourceProperty), propertyHandler.GetProperty)
			propertyRoutes.PUT("/:id", propertyHandler.UpdateProperty)
			propertyRoutes.DELETE("/:id", propertyHandler.DeleteProperty)
		}

		unitRoutes := guarded.Group("/units")
		{
			unitRoutes.GET("", unitHandler.ListUnits)
			unitRoutes.POST("", unitHandler.CreateUnit)
			unitRoutes.GET("/:id", authzMiddleware.RequireOwnership(authz.ResourceUnit), unitHandler.GetUnit)
			unitRoutes.PUT("/:id", unitHandler.UpdateUnit)
			unitRoutes.DELETE("/:id", unitHandler.DeleteUnit)
		}

		tenantRoutes := guarded.Group("/tenants")
		{
			tenantRoutes.GET("", tenantHandler.ListTenants)
			tenantRoutes.POST("", tenantHandler.CreateTenant)
			tenantRoutes.GET("/:id", authzMiddleware.RequireOwnership(authz.ResourceTenant), tenantHandler.GetTenant)
			tenantRoutes.PUT("/:id", tenantHandler.UpdateTenant)
			tenantRoutes.DELETE("/:id", tenantHandler.DeleteTenant)
		}

		leaseRoutes := guarded.Group("/leases")
		{
			leaseRoutes.GET("", leaseHandler.ListLeases)
			leaseRoutes.POST("", leaseHandler.CreateLease)
			leaseRoutes.GET("/:id", authzMiddleware.RequireOwnership(authz.ResourceLease), leaseHandler.GetLease)
			leaseRoutes.PUT("/:id", leaseHandler.UpdateLease)
			leaseRoutes.DELETE("/:id", leaseHandler.DeleteLease)
		}

		paymentRoutes := guarded.Group("/payments")
		{
			paymentRoutes.GET("", paymentHandler.ListPayments)
			paymentRoutes.POST("", paymentHandler.CreatePayment)
			paymentRoutes.GET("/:id", authzMiddleware.RequireOwnership(authz.ResourcePayment), paymentHandler.GetPayment)
			paymentRoutes.DELETE("/:id", paymentHandler.DeletePayment)
		}

		maintenanceRoutes := guarded.Group("/maintenance")
		{
			maintenanceRoutes.GET("", maintenanceHandler.ListMaintenanceRequests)
			maintenanceRoutes.POST("", maintenanceHandler.CreateMaintenanceRequest)
			maintenanceRoutes.GET("/:id", authzMiddleware.RequireOwnership(authz.ResourceMaintenance), maintenanceHandler.GetMaintenanceRequest)
			maintenanceRoutes.PUT("/:id", maintenanceHandler.UpdateMaintenanceRequest)
			maintenanceRoutes.DELETE("/:id", maintenanceHandler.DeleteMaintenanceRequest)
		}

		guarded.GET("/dashboard", dashboardHandler.GetOwnerDashboard)
		guarded.GET("/users/:id/id-document-url", storageHandler.GetIDDocumentURL)
	}

	// ADMIN ENDPOINTS (super admin only)
	admin := authed.Group("/admin")
	admin.Use(authzMiddleware.RequireSuperAdmin())
	{
		admin.GET("/profiles", adminHandler.ListProfiles)
		admin.PUT("/profiles/:id/approval", adminHandler.SetApprovalStatus)
		admin.GET("/activity", adminHandler.ListActivityLogs)
		admin.POST("/users/:id/roles/property_owner", adminHandler.GrantOwnerRole)
		admin.DELETE("/users/:id/roles/property_owner", adminHandler.RevokeOwnerRole)
		admin.GET("/dashboard", dashboardHandler.GetAdminDashboard)
	}

	return r
}
