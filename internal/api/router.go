// Package api wires the HTTP routes for the form and the JSON API.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cell-monitor/internal/api/handlers"
	"cell-monitor/internal/api/middleware"
	"cell-monitor/internal/api/models"
	"cell-monitor/internal/config"
	"cell-monitor/internal/session"
	"cell-monitor/internal/web"
)

// NewRouter builds the gin engine serving both the HTML form and /api/v1.
func NewRouter(cfg *config.Config, store *session.Store) (*gin.Engine, error) {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	cookieStore := cookie.NewStore([]byte(cfg.Session.Secret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})

	// Apply middleware
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger(logrus.StandardLogger()))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(sessions.Sessions(cfg.Session.CookieName, cookieStore))
	router.Use(middleware.Session(store))

	cellHandler := handlers.NewCellHandler(store, cfg.Cells.MaxCount)
	formHandler := handlers.NewFormHandler(store, cfg.Cells.MaxCount)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": store.Len()})
	})

	// Interactive form
	router.GET("/", formHandler.Index)
	router.POST("/cells/declare", formHandler.Declare)
	router.POST("/cells/create", formHandler.Create)
	router.POST("/cells/currents", formHandler.Currents)
	router.POST("/cells/reset", formHandler.Reset)
	router.GET("/cells/export.csv", cellHandler.ExportCSV)

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/chemistries", handlers.ListChemistries)

		api.POST("/cells/declare", cellHandler.Declare)
		api.POST("/cells/chemistries", cellHandler.SetChemistries)
		api.PUT("/cells/:id/current", cellHandler.SetCurrent)
		api.GET("/cells", cellHandler.ListCells)
		api.DELETE("/cells", cellHandler.Reset)
		api.GET("/cells/summary", cellHandler.Summary)
		api.GET("/cells/export.csv", cellHandler.ExportCSV)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
			})
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	})

	return router, nil
}
