package app

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradelens/internal/api"
	"github.com/guttosm/tradelens/internal/service"
)

// InitializeApp wires the HTTP layer around an already computed report and
// returns a fully configured Gin router, a cleanup function for graceful
// shutdown, and any error encountered during initialization.
//
// Responsibilities:
//   - Creates the HTTP handler layer over the report snapshot.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness checks (ready once a report is held).
//   - Provides a cleanup function that drops the held report.
func InitializeApp(reports *service.Snapshot) (*gin.Engine, func(), error) {
	if reports == nil {
		return nil, nil, errors.New("report snapshot is required")
	}

	handler := api.NewHandler(reports)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(reports.Ready)
	healthHandler.Register(router)

	cleanup := func() {
		reports.Set(nil)
	}

	return router, cleanup, nil
}
