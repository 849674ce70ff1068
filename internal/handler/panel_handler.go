package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/store"
	"github.com/studioadmin/internal/view"
	"go.uber.org/zap"
)

type saveFunc[T panel.Record] func(c *gin.Context, form panel.Form) (T, error)

// PanelHandler serves the HTML pages and JSON API of one admin panel.
type PanelHandler[T panel.Record] struct {
	api   *API
	panel *panel.Panel[T]
	save  saveFunc[T]
}

func newPanelHandler[T panel.Record](a *API, p *panel.Panel[T], save saveFunc[T]) *PanelHandler[T] {
	h := &PanelHandler[T]{api: a, panel: p, save: save}
	if h.save == nil {
		h.save = func(c *gin.Context, form panel.Form) (T, error) {
			return p.Submit(c.Request.Context(), form)
		}
	}
	return h
}

// Schema exposes the panel schema so routes can follow its capabilities.
func (h *PanelHandler[T]) Schema() panel.Schema {
	return h.panel.Schema()
}

func (h *PanelHandler[T]) listURL() string {
	return "/admin/" + h.panel.Schema().Path
}

func (h *PanelHandler[T]) recordURL(id uint) string {
	return fmt.Sprintf("%s/%d", h.listURL(), id)
}

// List renders the list page. A failed fetch keeps the previous rows and
// shows the error above them.
func (h *PanelHandler[T]) List(c *gin.Context) {
	items, err := h.panel.List(c.Request.Context())

	schema := h.panel.Schema()
	page := view.ListPage{
		Title:    schema.Title,
		Path:     schema.Path,
		Singular: schema.Singular,
		Can:      schema.Can,
		Columns:  schema.ListFields(),
		Rows:     h.rows(items),
		Count:    len(items),
		Flashes:  takeFlashes(c),
	}
	if err != nil {
		h.api.logger.Warn("list failed", zap.String("collection", schema.Collection), zap.Error(err))
		page.Error = store.Message(err)
	}

	h.api.renderHTML(c, http.StatusOK, "panel_list.html", gin.H{
		"title": schema.Title,
		"page":  page,
	})
}

func (h *PanelHandler[T]) rows(items []T) []view.Row {
	columns := h.panel.Schema().ListFields()
	rows := make([]view.Row, 0, len(items))
	for _, item := range items {
		values := h.panel.Encode(item)
		cells := make([]view.Cell, 0, len(columns))
		for _, field := range columns {
			cells = append(cells, view.Cell{Field: field, Value: values[field.Name]})
		}
		rows = append(rows, view.Row{ID: item.RecordID(), Label: h.panel.Describe(item), Cells: cells})
	}
	return rows
}

// New renders a blank draft.
func (h *PanelHandler[T]) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, h.panel.NewForm(), "")
}

// Edit renders a draft holding a copy of the record.
func (h *PanelHandler[T]) Edit(c *gin.Context) {
	rec, ok := h.findForPage(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, h.panel.EditForm(rec), "")
}

// Create validates and inserts the posted draft.
func (h *PanelHandler[T]) Create(c *gin.Context) {
	form := h.panel.NewForm()
	if err := applyDraft(c, h.panel.Schema(), &form); err != nil {
		h.renderForm(c, http.StatusBadRequest, form, "Invalid form submission.")
		return
	}

	rec, err := h.save(c, form)
	if err != nil {
		h.renderSaveError(c, form, err)
		return
	}

	redirectWithFlash(c, h.listURL(), view.FlashNotice, fmt.Sprintf("%s created: %s.", h.panel.Schema().Singular, h.panel.Describe(rec)))
}

// Update validates and writes the posted draft over record :id. The
// record is read through the store as the base for fields the form does
// not post; if that read fails the draft is shown again with the error.
func (h *PanelHandler[T]) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		redirectWithFlash(c, h.listURL(), view.FlashError, "Invalid record id.")
		return
	}

	schema := h.panel.Schema()
	form := h.panel.NewForm()
	form.ID = id
	rec, loadErr := h.panel.Fetch(c.Request.Context(), id)
	switch {
	case loadErr == nil:
		form = h.panel.EditForm(rec)
	case errors.Is(loadErr, store.ErrNotFound):
		redirectWithFlash(c, h.listURL(), view.FlashError, store.Message(loadErr))
		return
	}

	if err := applyDraft(c, schema, &form); err != nil {
		h.renderForm(c, http.StatusBadRequest, form, "Invalid form submission.")
		return
	}

	if loadErr != nil {
		if err := h.panel.Validate(form, schema.NamesOfKind(panel.KindImage)...); err != nil {
			h.renderSaveError(c, form, err)
			return
		}
		h.renderSaveError(c, form, loadErr)
		return
	}

	saved, err := h.save(c, form)
	if err != nil {
		h.renderSaveError(c, form, err)
		return
	}

	redirectWithFlash(c, h.listURL(), view.FlashNotice, fmt.Sprintf("%s updated: %s.", schema.Singular, h.panel.Describe(saved)))
}

// ConfirmDelete asks the user before deleting record :id.
func (h *PanelHandler[T]) ConfirmDelete(c *gin.Context) {
	rec, ok := h.findForPage(c)
	if !ok {
		return
	}

	schema := h.panel.Schema()
	h.api.renderHTML(c, http.StatusOK, "panel_confirm.html", gin.H{
		"title": "Delete " + schema.Singular,
		"page": view.ConfirmPage{
			Title:   schema.Title,
			Path:    schema.Path,
			ID:      rec.RecordID(),
			Label:   h.panel.Describe(rec),
			Action:  h.recordURL(rec.RecordID()) + "/delete",
			BackURL: h.listURL(),
		},
	})
}

// Delete removes record :id once the confirm field is set.
func (h *PanelHandler[T]) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		redirectWithFlash(c, h.listURL(), view.FlashError, "Invalid record id.")
		return
	}

	// Unconfirmed requests never reach the store, not even for the label.
	if c.PostForm("confirm") != "yes" {
		redirectWithFlash(c, h.listURL(), view.FlashNotice, "Delete cancelled.")
		return
	}

	label := fmt.Sprintf("%s #%d", h.panel.Schema().Singular, id)
	if rec, findErr := h.panel.Find(c.Request.Context(), id); findErr == nil {
		label = h.panel.Describe(rec)
	}

	if err := h.panel.Delete(c.Request.Context(), id, true); err != nil {
		h.api.logger.Error("delete failed", zap.String("collection", h.panel.Schema().Collection), zap.Uint("id", id), zap.Error(err))
		redirectWithFlash(c, h.listURL(), view.FlashError, store.Message(err))
		return
	}

	redirectWithFlash(c, h.listURL(), view.FlashNotice, fmt.Sprintf("Deleted %s.", label))
}

func (h *PanelHandler[T]) findForPage(c *gin.Context) (T, bool) {
	var zero T

	id, err := parseUintParam(c, "id")
	if err != nil {
		redirectWithFlash(c, h.listURL(), view.FlashError, "Invalid record id.")
		return zero, false
	}

	rec, err := h.panel.Find(c.Request.Context(), id)
	if err != nil {
		redirectWithFlash(c, h.listURL(), view.FlashError, store.Message(err))
		return zero, false
	}
	return rec, true
}

func (h *PanelHandler[T]) renderSaveError(c *gin.Context, form panel.Form, err error) {
	var verr *panel.ValidationError
	if errors.As(err, &verr) {
		form.Errors = verr.Fields
		h.renderForm(c, http.StatusBadRequest, form, "")
		return
	}

	h.api.logger.Error("save failed", zap.String("collection", h.panel.Schema().Collection), zap.Error(err))
	h.renderForm(c, statusForError(err), form, store.Message(err))
}

func (h *PanelHandler[T]) renderForm(c *gin.Context, status int, form panel.Form, message string) {
	schema := h.panel.Schema()

	title := "New " + schema.Singular
	action := h.listURL()
	if form.Editing() {
		title = "Edit " + schema.Singular
		action = h.recordURL(form.ID)
	}

	page := view.FormPage{
		Title:    title,
		Path:     schema.Path,
		Singular: schema.Singular,
		Action:   action,
		BackURL:  h.listURL(),
		Fields:   schema.Fields,
		Form:     form,
		Error:    message,
		Flashes:  takeFlashes(c),
	}
	decorateFormPage(&page, schema, form)

	h.api.renderHTML(c, status, "panel_form.html", gin.H{
		"title": title,
		"page":  page,
	})
}

// decorateFormPage switches to multipart for image fields and renders the
// description preview.
func decorateFormPage(page *view.FormPage, schema panel.Schema, form panel.Form) {
	for _, field := range schema.Fields {
		if field.Kind == panel.KindImage {
			page.Multipart = true
		}
	}
	if _, ok := schema.Field("description"); ok {
		if preview, err := view.RenderMarkdown(form.Get("description")); err == nil {
			page.Preview = preview
		}
	}
}

// APIList returns every record.
func (h *PanelHandler[T]) APIList(c *gin.Context) {
	items, err := h.panel.List(c.Request.Context())
	if err != nil {
		h.api.logger.Warn("list failed", zap.String("collection", h.panel.Schema().Collection), zap.Error(err))
		respondPanelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// APIGet returns record :id.
func (h *PanelHandler[T]) APIGet(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}

	rec, err := h.panel.Find(c.Request.Context(), id)
	if err != nil {
		respondPanelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": rec})
}

// APICreate inserts a record from a JSON or multipart body.
func (h *PanelHandler[T]) APICreate(c *gin.Context) {
	form := h.panel.NewForm()
	if err := applyDraft(c, h.panel.Schema(), &form); err != nil {
		respondPanelError(c, err)
		return
	}

	rec, err := h.save(c, form)
	if err != nil {
		respondPanelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.panel.Schema().Singular + " created", "item": rec})
}

// APIUpdate writes a JSON or multipart body over record :id. The record
// is reread from the store first; fields absent from the body keep the
// values it returns.
func (h *PanelHandler[T]) APIUpdate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}

	rec, err := h.panel.Fetch(c.Request.Context(), id)
	if err != nil {
		respondPanelError(c, err)
		return
	}

	form := h.panel.EditForm(rec)
	if err := applyDraft(c, h.panel.Schema(), &form); err != nil {
		respondPanelError(c, err)
		return
	}

	saved, err := h.save(c, form)
	if err != nil {
		respondPanelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.panel.Schema().Singular + " updated", "item": saved})
}

// APIDelete removes record :id; the request must carry confirm=true.
func (h *PanelHandler[T]) APIDelete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := h.panel.Delete(c.Request.Context(), id, confirmed); err != nil {
		respondPanelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.panel.Schema().Singular + " deleted"})
}
