package main

import (
	"log"
	"strings"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/config"
	"lokanta-backend/internal/customer"
	"lokanta-backend/internal/dashboard"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/inventory"
	"lokanta-backend/internal/menu"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/order"
	"lokanta-backend/internal/payment"
	"lokanta-backend/internal/purchase"
	"lokanta-backend/internal/recipe"
	"lokanta-backend/internal/staff"
	"lokanta-backend/internal/supplier"
	"lokanta-backend/internal/tablesession"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Masa yönetimi
	adminRoutes.Post("/tables", tablesession.CreateTableHandler())

	// Menü yönetimi
	adminRoutes.Post("/menu-items", menu.CreateMenuItemHandler())
	adminRoutes.Put("/menu-items/:id", menu.UpdateMenuItemHandler())
	adminRoutes.Put("/menu-items/:id/recipe", recipe.UpsertRecipeLineHandler())
	adminRoutes.Delete("/menu-items/:id/recipe/:itemId", recipe.DeactivateRecipeLineHandler())

	// Depo yönetimi
	adminRoutes.Post("/warehouse-items", inventory.CreateWarehouseItemHandler())
	adminRoutes.Put("/warehouse-items/:id", inventory.UpdateWarehouseItemHandler())
	adminRoutes.Post("/warehouse-items/import", inventory.ImportWarehouseItemsHandler())

	// Tedarikçi yönetimi
	adminRoutes.Post("/suppliers", supplier.CreateSupplierHandler())
	adminRoutes.Put("/suppliers/:id/items", supplier.UpsertSupplierItemHandler())
	adminRoutes.Delete("/suppliers/:id/items/:itemId", supplier.DeleteSupplierItemHandler())

	// Çalışan yönetimi
	adminRoutes.Post("/employees", staff.CreateEmployeeHandler())
	adminRoutes.Put("/employees/:id", staff.UpdateEmployeeHandler())
	adminRoutes.Post("/employees/:id/toggle-active", staff.ToggleEmployeeActiveHandler())

	// Ortak (auth gerektiren) route'lar

	// Masalar ve oturumlar
	protected.Get("/tables", tablesession.ListTablesHandler())
	protected.Get("/tables/:id/session", tablesession.GetActiveSessionHandler())
	protected.Post("/tables/:id/close-session", tablesession.CloseSessionHandler())

	// Salon görünümü
	protected.Get("/dashboard/tables", dashboard.TablesHandler())

	// Menü ve reçeteler
	protected.Get("/menu-items", menu.ListMenuItemsHandler())
	protected.Get("/menu-items/:id/recipe", recipe.ListRecipeHandler())

	// Siparişler
	protected.Post("/orders", order.StartOrderHandler())
	protected.Get("/orders", order.ListOrdersHandler())
	protected.Get("/orders/:id", order.GetOrderHandler())
	protected.Post("/orders/:id/lines", order.AddLineHandler())
	protected.Post("/orders/:id/lines/:menuItemId/decrement", order.DecrementLineHandler())
	protected.Post("/orders/:id/lines/:menuItemId/cancel", order.CancelLineHandler())
	protected.Post("/orders/:id/lines/:menuItemId/uncancel", order.UncancelLineHandler())
	protected.Post("/orders/:id/cancel", order.CancelOrderHandler())
	protected.Post("/orders/:id/serve", order.MarkServedHandler())
	protected.Post("/orders/:id/assignments", order.RecordAssignmentHandler())
	protected.Delete("/orders/:id/assignments/:employeeId", order.RemoveAssignmentHandler())

	// Depo
	protected.Get("/warehouse-items", inventory.ListWarehouseItemsHandler())
	protected.Get("/warehouse-items/reorder", inventory.ReorderReportHandler())
	protected.Get("/warehouse-items/:id/movements", inventory.ListMovementsHandler())

	// Tedarik
	protected.Get("/suppliers", supplier.ListSuppliersHandler())
	protected.Get("/suppliers/:id/items", supplier.ListSupplierItemsHandler())
	protected.Post("/purchases", purchase.StartPurchaseHandler())
	protected.Get("/purchases", purchase.ListPurchasesHandler())
	protected.Get("/purchases/:id", purchase.GetPurchaseHandler())
	protected.Post("/purchases/:id/lines", purchase.AddPurchaseLineHandler())
	protected.Post("/purchases/:id/lines/:itemId/decrement", purchase.DecrementPurchaseLineHandler())
	protected.Post("/purchases/:id/confirm", purchase.ConfirmPurchaseHandler())
	protected.Post("/purchases/:id/deliver", purchase.DeliverPurchaseHandler())
	protected.Post("/purchases/:id/cancel", purchase.CancelPurchaseHandler())

	// Ödemeler
	protected.Post("/payments", payment.RecordPaymentHandler())
	protected.Get("/payments", payment.ListPaymentsHandler())

	// Müşteriler
	protected.Get("/customers", customer.ListCustomersHandler())
	protected.Post("/customers", customer.CreateCustomerHandler())
	protected.Put("/customers/:id", customer.UpdateCustomerHandler())

	// Çalışanlar
	protected.Get("/employees", staff.ListEmployeesHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
