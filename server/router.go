package server

import (
	"github.com/autovm/autovm/internal/controllers"
	"github.com/cyverse-de/echo-middleware/v2/redoc"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echolog "github.com/spirosoik/echo-logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func InitRouter() *echo.Echo {
	log := log.WithFields(logrus.Fields{"context": "router"})

	// Create the web server.
	e := echo.New()

	// Set a custom logger.
	echoLogger := echolog.NewLoggerMiddleware(log)
	e.Logger = echoLogger

	// Add middleware.
	e.Use(otelecho.Middleware("AutoVM"))
	e.Use(echoLogger.Hook())
	e.Use(middleware.Recover())
	e.Use(redoc.Serve(redoc.Opts{Title: "AutoVM Hosting Management"}))

	return e
}

func registerVMEndpoints(vms *echo.Group, s *controllers.Server) {
	// Lists the virtual machines visible to the requester.
	vms.GET("", s.GetAllVMs)

	// Provisions a new virtual machine.
	vms.POST("", s.AddVM)

	// Summarizes the virtual machines visible to the requester.
	vms.GET("/statistics", s.GetVMStatistics)

	// Gets the details of a virtual machine.
	vms.GET("/:vm_id", s.GetVM)

	// Takes a backup of a virtual machine.
	vms.POST("/:vm_id/backup", s.BackupVM)

	// Transfers ownership of a virtual machine.
	vms.POST("/:vm_id/assign", s.AssignVM)

	// Lists the audit log for a virtual machine.
	vms.GET("/:vm_id/history", s.GetVMHistory)
}

func registerAccountEndpoints(accounts *echo.Group, s *controllers.Server) {
	// Gets the requester's account balance.
	accounts.GET("/balance", s.GetBalance)

	// Adds funds to the requester's account.
	accounts.POST("/deposit", s.Deposit)
}

func registerCustomerEndpoints(customers *echo.Group, s *controllers.Server) {
	// Lists the customer profiles.
	customers.GET("", s.GetAllCustomers)

	// Summarizes the customer population.
	customers.GET("/statistics", s.GetCustomerStatistics)

	// Suspends or reactivates a customer account.
	customers.POST("/:username/suspend", s.SuspendCustomer)
}

func RegisterHandlers(s controllers.Server) {

	// The base URL acts as a health check endpoint.
	s.Router.GET("/", s.RootHandler)

	// API version 1 endpoints.
	v1 := s.Router.Group("/v1")
	v1.GET("", s.V1RootHandler)

	plans := v1.Group("/plans")
	plans.GET("", s.GetAllPlans)
	plans.GET("/:plan_id", s.GetPlanByID)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.GET("", s.ListSubscriptions)
	subscriptions.POST("", s.PurchaseSubscription)

	accounts := v1.Group("/accounts")
	registerAccountEndpoints(accounts, &s)

	transactions := v1.Group("/transactions")
	transactions.GET("", s.GetAllTransactions)

	vms := v1.Group("/vms")
	registerVMEndpoints(vms, &s)

	backups := v1.Group("/backups")
	backups.GET("", s.GetAllBackups)

	vmHistory := v1.Group("/vm-history")
	vmHistory.GET("", s.GetAllVMHistory)

	regions := v1.Group("/regions")
	regions.GET("", s.GetAllRegions)
	regions.POST("", s.AddRegion)

	osVersions := v1.Group("/os-versions")
	osVersions.GET("", s.GetAllOSVersions)
	osVersions.POST("", s.AddOSVersion)

	notifications := v1.Group("/notifications")
	notifications.GET("", s.GetNotifications)
	notifications.POST("/:notification_id/read", s.MarkNotificationRead)

	users := v1.Group("/users")
	users.GET("", s.GetAllUsers)
	users.PUT("/:username", s.AddUser)

	customers := v1.Group("/customers")
	registerCustomerEndpoints(customers, &s)

	guests := v1.Group("/guests")
	guests.GET("", s.GetAllGuests)
}
