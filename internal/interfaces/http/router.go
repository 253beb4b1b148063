package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/hospital-contable/internal/application/ledger"
	"github.com/jhoicas/hospital-contable/pkg/jwt"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *ledger.Service
	JWTSecret string
	JWTIssuer string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API contable.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Logger))

	// Rutas protegidas (requieren Bearer Token)
	accounting := api.Group("/accounting", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	periodHandler := NewPeriodHandler(deps.Ledger, deps.Logger)
	accounting.Get("/periods/open", periodHandler.GetOpen)

	// Aprobar y anular: solo admin o contador
	approvers := RequireRole(jwt.RoleAdmin, jwt.RoleContador)

	entries := accounting.Group("/journal-entries")
	journalHandler := NewJournalHandler(deps.Ledger, deps.Logger)
	entries.Post("/", journalHandler.Create)
	entries.Get("/", journalHandler.List)
	entries.Get("/:id", journalHandler.GetByID)
	entries.Put("/:id", journalHandler.Update)
	entries.Delete("/:id", journalHandler.Delete)
	entries.Post("/:id/submit", journalHandler.Submit)
	entries.Post("/:id/approve", approvers, journalHandler.Approve)
	entries.Post("/:id/void", approvers, journalHandler.Void)
}
