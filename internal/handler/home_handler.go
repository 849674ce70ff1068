package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/store"
	"github.com/studioadmin/internal/view"
	"go.uber.org/zap"
)

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// ShowHome 渲染后台首页，列出各模块及其记录数
func (a *API) ShowHome(c *gin.Context) {
	ctx := c.Request.Context()

	panels := []struct {
		title string
		path  string
		count counter
	}{
		{"Classes", "classes", a.admins.Classes},
		{"Contact", "contact", a.admins.Contact},
		{"Testimonials", "testimonials", a.admins.Testimonials},
		{"Artworks", "artworks", a.admins.Artworks},
	}

	cards := make([]view.Card, 0, len(panels))
	for _, p := range panels {
		card := view.Card{Title: p.title, Path: p.path}
		total, err := p.count.Count(ctx)
		if err != nil {
			a.logger.Warn("count failed", zap.String("panel", p.path), zap.Error(err))
			card.Error = store.Message(err)
		}
		card.Count = total
		cards = append(cards, card)
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title": "Dashboard",
		"page":  view.HomePage{Cards: cards, Flashes: takeFlashes(c)},
	})
}

// NotFound renders the 404 page, or a JSON error under the API prefix.
func (a *API) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/admin/api/") {
		respondError(c, http.StatusNotFound, "not found")
		return
	}
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{
		"title": "Not found",
		"path":  path,
	})
}
