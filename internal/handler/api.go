package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/db"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db     *gorm.DB
	admins service.Admins
	logger *zap.Logger

	Classes      *PanelHandler[db.ClassRecord]
	Testimonials *PanelHandler[db.Testimonial]
	Artworks     *PanelHandler[db.Artwork]
}

const siteName = "Studio Admin"

// NewAPI constructs a handler set over the given admins.
func NewAPI(gdb *gorm.DB, admins service.Admins, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &API{
		db:     gdb,
		admins: admins,
		logger: logger,
	}

	a.Classes = newPanelHandler(a, admins.Classes.Panel, nil)
	a.Testimonials = newPanelHandler(a, admins.Testimonials.Panel, nil)
	a.Artworks = newPanelHandler(a, admins.Artworks.Panel, func(c *gin.Context, form panel.Form) (db.Artwork, error) {
		file, closeFile, err := openUploadedImage(c)
		if err != nil {
			return db.Artwork{}, err
		}
		defer closeFile()
		return admins.Artworks.Save(c.Request.Context(), form, file)
	})

	return a
}

// renderHTML 在向模板渲染时自动附加站点名称
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = siteName
	}
	c.HTML(status, template, payload)
}

// Healthz reports whether the record store is reachable.
func (a *API) Healthz(c *gin.Context) {
	if a.db == nil {
		respondError(c, http.StatusServiceUnavailable, "database not configured")
		return
	}
	if err := db.Ping(a.db); err != nil {
		a.logger.Warn("health check failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
