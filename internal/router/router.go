package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/handler"
	"github.com/studioadmin/internal/logging"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/view"
	"go.uber.org/zap"
)

// Options 配置路由需要的外部参数
type Options struct {
	SessionSecret string
	// UploadDir is served under UploadURLPath when the local bucket is used.
	UploadDir     string
	UploadURLPath string
	CacheControl  string
	Logger        *zap.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(logger))

	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// 配置会话中间件，用于跨重定向的提示信息
	secret := opts.SessionSecret
	if secret == "" {
		secret = "studioadmin-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/admin", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("studioadmin_session", store))

	// 静态文件服务
	if dir := strings.TrimSpace(opts.UploadDir); dir != "" {
		urlPath := "/" + strings.Trim(opts.UploadURLPath, "/")
		if urlPath == "/" {
			urlPath = "/static/uploads"
		}
		uploads := r.Group(urlPath, cacheControl(opts.CacheControl))
		uploads.Static("/", dir)
	}

	r.GET("/healthz", api.Healthz)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin")
	})

	admin := r.Group("/admin")
	apiGroup := admin.Group("/api")
	{
		admin.GET("", api.ShowHome)

		admin.GET("/contact", api.ShowContact)
		admin.POST("/contact", api.SaveContact)
		apiGroup.GET("/contact", api.GetContactInfo)
		apiGroup.PUT("/contact", api.UpdateContactInfo)

		registerPanel(admin, apiGroup, api.Classes)
		registerPanel(admin, apiGroup, api.Testimonials)
		registerPanel(admin, apiGroup, api.Artworks)
	}

	r.NoRoute(api.NotFound)

	return r, nil
}

// registerPanel adds the list route plus whatever the panel's capabilities allow.
func registerPanel[T panel.Record](admin, apiGroup *gin.RouterGroup, h *handler.PanelHandler[T]) {
	schema := h.Schema()
	base := "/" + schema.Path

	admin.GET(base, h.List)
	apiGroup.GET(base, h.APIList)
	apiGroup.GET(base+"/:id", h.APIGet)

	if schema.Can.Create {
		admin.GET(base+"/new", h.New)
		admin.POST(base, h.Create)
		apiGroup.POST(base, h.APICreate)
	}
	if schema.Can.Update {
		admin.GET(base+"/:id/edit", h.Edit)
		admin.POST(base+"/:id", h.Update)
		apiGroup.PUT(base+"/:id", h.APIUpdate)
	}
	if schema.Can.Delete {
		admin.GET(base+"/:id/delete", h.ConfirmDelete)
		admin.POST(base+"/:id/delete", h.Delete)
		apiGroup.DELETE(base+"/:id", h.APIDelete)
	}
}

func cacheControl(seconds string) gin.HandlerFunc {
	value := strings.TrimSpace(seconds)
	if value == "" {
		value = "3600"
	}
	header := "max-age=" + value
	return func(c *gin.Context) {
		c.Header("Cache-Control", header)
		c.Next()
	}
}
