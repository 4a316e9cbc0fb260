package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/huellitas/vetrecords/docs"
	"github.com/huellitas/vetrecords/internal/api/handler"
	"github.com/huellitas/vetrecords/internal/api/middleware"
	"github.com/huellitas/vetrecords/internal/core/access"
	"github.com/huellitas/vetrecords/internal/core/ports"
)

// Services are the core services exposed over HTTP.
type Services struct {
	Auth         ports.AuthService
	Directory    ports.IdentityDirectory
	Pets         ports.PetService
	Products     ports.ProductService
	Appointments ports.AppointmentService
}

// Options tune the router.
type Options struct {
	Log          zerolog.Logger
	SecureCookie bool
	// SessionTTL is the lifetime of the session cookie.
	SessionTTL time.Duration
	// Readiness backs /health/ready. When nil the probe always succeeds.
	Readiness *handler.HealthDependenciesHandler
}

// route binds a method and path to the action that guards it.
type route struct {
	method string
	path   string
	action access.Action
	handle middleware.ProtectedHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	v, err := handler.NewValidator()
	if err != nil {
		return nil, err
	}
	e.Validator = v

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	e.Use(middleware.Session(svc.Auth, opts.SecureCookie))

	authHandler := handler.NewAuthHandler(svc.Auth, opts.SessionTTL, opts.SecureCookie)
	users := handler.NewUserHandler(svc.Directory)
	pets := handler.NewPetHandler(svc.Pets)
	products := handler.NewProductHandler(svc.Products)
	appointments := handler.NewAppointmentHandler(svc.Appointments)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	readiness := opts.Readiness
	if readiness == nil {
		readiness = handler.NewReadinessHandler()
	}
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", readiness.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Protected routes ---
	routes := []route{
		{http.MethodGet, "/auth/me", access.ActionSession, authHandler.Me},

		{http.MethodGet, "/v1/users", access.ActionManageUsers, users.List},
		{http.MethodPost, "/v1/users", access.ActionRegisterUser, users.Create},
		{http.MethodPut, "/v1/users/:id", access.ActionManageUsers, users.Update},
		{http.MethodDelete, "/v1/users/:id", access.ActionManageUsers, users.Delete},

		{http.MethodGet, "/v1/pets", access.ActionBrowseRecords, pets.List},
		{http.MethodGet, "/v1/pets/search", access.ActionBrowseRecords, pets.Search},
		{http.MethodGet, "/v1/pets/:id", access.ActionBrowseRecords, pets.Get},
		{http.MethodPost, "/v1/pets", access.ActionManagePets, pets.Create},
		{http.MethodPut, "/v1/pets/:id", access.ActionManagePets, pets.Update},
		{http.MethodDelete, "/v1/pets/:id", access.ActionManagePets, pets.Delete},
		{http.MethodGet, "/v1/pets/:id/history", access.ActionViewClinicalHistory, pets.History},
		{http.MethodPost, "/v1/pets/:id/visits", access.ActionRecordClinicalVisit, pets.RecordVisit},

		{http.MethodGet, "/v1/products", access.ActionBrowseRecords, products.List},
		{http.MethodGet, "/v1/products/:id", access.ActionBrowseRecords, products.Get},
		{http.MethodPost, "/v1/products", access.ActionManageProducts, products.Create},
		{http.MethodPut, "/v1/products/:id", access.ActionManageProducts, products.Update},
		{http.MethodDelete, "/v1/products/:id", access.ActionManageProducts, products.Delete},

		{http.MethodGet, "/v1/appointments", access.ActionBrowseRecords, appointments.List},
		{http.MethodGet, "/v1/appointments/:id", access.ActionBrowseRecords, appointments.Get},
		{http.MethodPost, "/v1/appointments", access.ActionManageAppointments, appointments.Create},
		{http.MethodPut, "/v1/appointments/:id", access.ActionManageAppointments, appointments.Update},
		{http.MethodDelete, "/v1/appointments/:id", access.ActionManageAppointments, appointments.Delete},
	}
	for _, r := range routes {
		e.Add(r.method, r.path, middleware.Dispatch(r.action, r.handle))
	}

	return e, nil
}
