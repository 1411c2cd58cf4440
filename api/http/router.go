package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rkotari/benchtrack/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	auth *handlers.AuthHandler,
	health *handlers.HealthHandler,
	candidates *handlers.CandidateHandler,
	documents *handlers.DocumentHandler,
	authMW fiber.Handler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)

	// Bench candidates
	cg := v1.Group("/candidates", authMW)
	cg.Get("/", candidates.List)
	cg.Post("/", candidates.Create)
	cg.Get("/search", candidates.Search)
	cg.Get("/count", candidates.Count)
	cg.Get("/recent", candidates.Recent)
	cg.Delete("/bulk", candidates.BulkDelete)
	cg.Get("/consultant/:employeeId", candidates.ByConsultant)
	cg.Get("/:id", candidates.GetByID)
	cg.Put("/:id", candidates.Update)
	cg.Delete("/:id", candidates.Delete)
	cg.Get("/:id/resume", candidates.DownloadResume)

	// Candidate documents
	cg.Get("/:id/documents", documents.List)
	cg.Post("/:id/documents", documents.Upload)
	cg.Post("/:id/documents/batch", documents.UploadBatch)
	cg.Get("/:id/documents/:docId", documents.Download)
	cg.Get("/:id/documents/:docId/info", documents.GetInfo)
	cg.Delete("/:id/documents/:docId", documents.Delete)
}
