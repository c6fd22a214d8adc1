package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/master-console/internal/application/auth"
	"github.com/tu-usuario/master-console/internal/application/provisioning"
	"github.com/tu-usuario/master-console/internal/application/usecase"
	"github.com/tu-usuario/master-console/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TenantUC    *usecase.TenantUseCase
	RequestUC   *usecase.RequestUseCase
	UserUC      *usecase.MasterUserUseCase
	ProvisionUC *provisioning.ProvisionUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Auth e intake self-service (públicos)
	api := app.Group("/api")
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	requestHandler := NewRequestHandler(deps.RequestUC, deps.ProvisionUC)
	api.Post("/tenant-requests", requestHandler.Create)

	// Consola master: requiere Bearer Token con rol MASTER_ADMIN
	master := app.Group("/master",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleMasterAdmin),
	)

	tenantHandler := NewTenantHandler(deps.TenantUC, deps.ProvisionUC)
	tenants := master.Group("/tenants")
	tenants.Get("/", tenantHandler.List)
	tenants.Post("/provision", tenantHandler.Provision)
	tenants.Get("/:tenantId", tenantHandler.GetByID)
	tenants.Delete("/:tenantId", tenantHandler.Delete)
	tenants.Get("/:tenantId/services", tenantHandler.GetServices)
	tenants.Put("/:tenantId/services", tenantHandler.UpdateServices)
	tenants.Put("/:tenantId/subscription", tenantHandler.UpdateSubscription)

	requests := master.Group("/tenant-requests")
	requests.Get("/", requestHandler.List)
	requests.Post("/cleanup", requestHandler.RetryCleanups)
	requests.Delete("/:requestId", requestHandler.Reject)

	userHandler := NewUserHandler(deps.UserUC)
	users := master.Group("/users")
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
