package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/audit"
	"github.com/redlineautoworks/mechanic-shop/internal/auth"
	"github.com/redlineautoworks/mechanic-shop/internal/cache"
	"github.com/redlineautoworks/mechanic-shop/internal/config"
	"github.com/redlineautoworks/mechanic-shop/internal/handlers"
	infraRepo "github.com/redlineautoworks/mechanic-shop/internal/infra/repository"
	"github.com/redlineautoworks/mechanic-shop/internal/middleware"
	ucInventory "github.com/redlineautoworks/mechanic-shop/internal/usecase/inventory"
	ucLabor "github.com/redlineautoworks/mechanic-shop/internal/usecase/labor"
	ucReport "github.com/redlineautoworks/mechanic-shop/internal/usecase/report"
	ucTicket "github.com/redlineautoworks/mechanic-shop/internal/usecase/ticket"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	ticketRepo := infraRepo.NewTicketGormRepository(db)
	inventoryRepo := infraRepo.NewInventoryGormRepository(db)
	reportRepo := infraRepo.NewReportGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	authSvc := auth.New(auth.Config{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}, db)

	ch := cache.New(cfg.RedisAddr)

	// ======================================================
	// USE CASES
	// ======================================================
	createTicketUC := ucTicket.NewCreateTicket(ticketRepo, auditDispatcher)
	updateTicketUC := ucTicket.NewUpdateTicket(ticketRepo, auditDispatcher)
	deleteTicketUC := ucTicket.NewDeleteTicket(ticketRepo, auditDispatcher)
	assignMechanicUC := ucTicket.NewAssignMechanic(ticketRepo, auditDispatcher)
	unassignMechanicUC := ucTicket.NewUnassignMechanic(ticketRepo, auditDispatcher)
	editMechanicsUC := ucTicket.NewEditMechanics(ticketRepo, auditDispatcher)
	attachPartUC := ucTicket.NewAttachPart(ticketRepo, inventoryRepo, auditDispatcher)

	logLaborUC := ucLabor.NewLogLabor(ticketRepo, auditDispatcher)
	updateLaborUC := ucLabor.NewUpdateLabor(ticketRepo, auditDispatcher)
	deleteLaborUC := ucLabor.NewDeleteLabor(ticketRepo, auditDispatcher)

	removeStockUC := ucInventory.NewRemoveStock(inventoryRepo, auditDispatcher)
	deletePartUC := ucInventory.NewDeletePart(inventoryRepo, auditDispatcher)

	topLaborUC := ucReport.NewTopLaborPerTicket(reportRepo)
	mostTicketsUC := ucReport.NewMechanicsByTicketCount(reportRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	customerHandler := handlers.NewCustomerHandler(db, authSvc)
	mechanicHandler := handlers.NewMechanicHandler(db, authSvc)
	meHandler := handlers.NewMeHandler()
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	ticketHandler := handlers.NewTicketHandler(
		db, ch,
		createTicketUC, updateTicketUC, deleteTicketUC,
		assignMechanicUC, unassignMechanicUC, editMechanicsUC,
		logLaborUC, updateLaborUC, deleteLaborUC,
	)

	inventoryHandler := handlers.NewInventoryHandler(
		db, ch,
		removeStockUC, deletePartUC, attachPartUC,
	)

	reportHandler := handlers.NewReportHandler(ch, topLaborUC, mostTicketsUC)

	// ======================================================
	// ROLE GUARDS
	// ======================================================
	customerOnly := middleware.RequireRoles(authSvc, auth.RoleCustomer)
	mechanicOnly := middleware.RequireRoles(authSvc, auth.RoleMechanic)
	anyPrincipal := middleware.RequireRoles(authSvc)

	// ======================================================
	// CUSTOMERS
	// ======================================================
	customers := r.Group("/customers")
	{
		customers.POST("", customerHandler.Register)
		customers.POST("/login", customerHandler.Login)

		customers.GET("", customerOnly, customerHandler.List)
		customers.GET("/search", customerOnly, customerHandler.Search)
		customers.GET("/my-tickets", customerOnly, customerHandler.MyTickets)
		customers.GET("/:id", customerOnly, customerHandler.Get)
		customers.PUT("/:id", customerOnly, customerHandler.Update)
		customers.DELETE("/:id", customerOnly, customerHandler.Delete)
	}

	// ======================================================
	// MECHANICS
	// ======================================================
	mechanics := r.Group("/mechanics")
	{
		mechanics.POST("", mechanicHandler.Register)
		mechanics.POST("/login", mechanicHandler.Login)

		mechanics.GET("", mechanicOnly, mechanicHandler.List)
		mechanics.GET("/reports/top_labor_by_ticket", mechanicOnly, reportHandler.TopLaborByTicket)
		mechanics.GET("/reports/most_tickets_worked", mechanicOnly, reportHandler.MostTicketsWorked)
		mechanics.GET("/:id", mechanicOnly, mechanicHandler.Get)
		mechanics.PUT("/:id", mechanicOnly, mechanicHandler.Update)
		mechanics.DELETE("/:id", mechanicOnly, mechanicHandler.Delete)
		mechanics.GET("/:id/service_tickets", mechanicOnly, mechanicHandler.MyServiceTickets)
	}

	// ======================================================
	// SERVICE TICKETS
	// ======================================================
	tickets := r.Group("/service-tickets")
	{
		tickets.GET("", ticketHandler.List)
		tickets.GET("/:id", ticketHandler.Get)

		tickets.POST("", customerOnly, ticketHandler.Create)
		tickets.PUT("/:id", customerOnly, ticketHandler.Update)
		tickets.DELETE("/:id", customerOnly, ticketHandler.Delete)
		tickets.PUT("/:id/edit-mechanics", customerOnly, ticketHandler.EditMechanics)

		tickets.PUT("/:id/assign-mechanic/:mechanic_id", mechanicOnly, ticketHandler.AssignMechanic)
		tickets.PUT("/:id/remove-mechanic/:mechanic_id", mechanicOnly, ticketHandler.RemoveMechanic)

		tickets.POST("/:id/labor", mechanicOnly, ticketHandler.AddLabor)
	}

	labor := r.Group("/labor")
	{
		labor.PUT("/:id", mechanicOnly, ticketHandler.UpdateLabor)
		labor.DELETE("/:id", mechanicOnly, ticketHandler.DeleteLabor)
	}

	// ======================================================
	// INVENTORY
	// ======================================================
	inventory := r.Group("/inventory")
	{
		inventory.GET("", inventoryHandler.List)
		inventory.GET("/:id", inventoryHandler.Get)

		inventory.POST("", mechanicOnly, inventoryHandler.Create)
		inventory.PUT("/:id", mechanicOnly, inventoryHandler.Update)
		inventory.DELETE("/:id", mechanicOnly, inventoryHandler.Delete)
		inventory.POST("/:id/remove_stock", mechanicOnly, inventoryHandler.RemoveStock)
		inventory.POST("/:id/add-to-ticket/:ticket_id", mechanicOnly, inventoryHandler.AddToTicket)
	}

	// ======================================================
	// PRINCIPAL + AUDIT
	// ======================================================
	r.GET("/me", anyPrincipal, meHandler.GetMe)
	r.GET("/audit-logs", mechanicOnly, auditLogsHandler.List)
}
