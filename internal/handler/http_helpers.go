package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/storage"
	"github.com/studioadmin/internal/store"
	"github.com/studioadmin/internal/view"
)

var errInvalidPayload = errors.New("invalid request payload")

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// statusForError maps panel, store and upload failures to HTTP codes.
// Anything unrecognised is a failed backend call.
func statusForError(err error) int {
	var verr *panel.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, errInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, panel.ErrNotConfirmed):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, panel.ErrNotSupported):
		return http.StatusMethodNotAllowed
	case errors.Is(err, storage.ErrObjectExists):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// respondPanelError writes err as JSON; validation errors carry per-field messages.
func respondPanelError(c *gin.Context, err error) {
	var verr *panel.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
		return
	}
	if errors.Is(err, panel.ErrNotConfirmed) {
		respondError(c, http.StatusBadRequest, "delete requires confirm=true")
		return
	}
	respondError(c, statusForError(err), store.Message(err))
}

// applyDraft overlays request values onto form verbatim. Image fields are
// never taken from the request; they change only through an uploaded file.
func applyDraft(c *gin.Context, schema panel.Schema, form *panel.Form) error {
	if c.ContentType() == gin.MIMEJSON {
		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			return errInvalidPayload
		}
		for _, field := range schema.Fields {
			if field.Kind == panel.KindImage {
				continue
			}
			if raw, ok := payload[field.Name]; ok {
				form.Set(field.Name, stringifyValue(raw))
			}
		}
		return nil
	}

	for _, field := range schema.Fields {
		if field.Kind == panel.KindImage {
			continue
		}
		if value, ok := c.GetPostForm(field.Name); ok {
			form.Set(field.Name, value)
		}
	}
	return nil
}

func stringifyValue(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// addFlash queues a message for the next rendered page.
func addFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, kind)
	_ = session.Save()
}

// takeFlashes drains queued messages, errors first.
func takeFlashes(c *gin.Context) []view.Flash {
	session := sessions.Default(c)

	var flashes []view.Flash
	for _, kind := range []string{view.FlashError, view.FlashNotice} {
		for _, raw := range session.Flashes(kind) {
			if message, ok := raw.(string); ok && message != "" {
				flashes = append(flashes, view.Flash{Kind: kind, Message: message})
			}
		}
	}
	if len(flashes) > 0 {
		_ = session.Save()
	}
	return flashes
}

func redirectWithFlash(c *gin.Context, location, kind, message string) {
	addFlash(c, kind, message)
	c.Redirect(http.StatusSeeOther, location)
}
