package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/store"
	"github.com/studioadmin/internal/view"
	"go.uber.org/zap"
)

const contactURL = "/admin/contact"

// ShowContact 渲染联系信息表单；表为空时展示空白表单
func (a *API) ShowContact(c *gin.Context) {
	form, err := a.admins.Contact.CurrentForm(c.Request.Context())
	message := ""
	if err != nil {
		a.logger.Warn("load contact info failed", zap.Error(err))
		message = store.Message(err)
	}
	a.renderContact(c, http.StatusOK, form, message)
}

// SaveContact 更新已有的联系信息，没有时新建；失败时保留已填写的内容
func (a *API) SaveContact(c *gin.Context) {
	ctx := c.Request.Context()

	form := a.admins.Contact.NewForm()
	if err := applyDraft(c, a.admins.Contact.Schema(), &form); err != nil {
		a.renderContact(c, http.StatusBadRequest, form, "Invalid form submission.")
		return
	}

	if _, err := a.admins.Contact.Save(ctx, form); err != nil {
		var verr *panel.ValidationError
		if errors.As(err, &verr) {
			form.Errors = verr.Fields
			a.renderContact(c, http.StatusBadRequest, form, "")
			return
		}
		a.logger.Error("save contact info failed", zap.Error(err))
		a.renderContact(c, statusForError(err), form, store.Message(err))
		return
	}

	redirectWithFlash(c, contactURL, view.FlashNotice, "Contact info saved.")
}

func (a *API) renderContact(c *gin.Context, status int, form panel.Form, message string) {
	schema := a.admins.Contact.Schema()
	a.renderHTML(c, status, "panel_form.html", gin.H{
		"title": schema.Title,
		"page": view.FormPage{
			Title:    schema.Title,
			Path:     schema.Path,
			Singular: schema.Singular,
			Action:   contactURL,
			Fields:   schema.Fields,
			Form:     form,
			Error:    message,
			Flashes:  takeFlashes(c),
		},
	})
}

// GetContactInfo returns the contact row, or null when none exists yet.
func (a *API) GetContactInfo(c *gin.Context) {
	row, err := a.admins.Contact.Load(c.Request.Context())
	if err != nil {
		respondPanelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": row})
}

// UpdateContactInfo replaces the contact row with a JSON body; fields
// absent from the body are saved empty.
func (a *API) UpdateContactInfo(c *gin.Context) {
	ctx := c.Request.Context()

	form := a.admins.Contact.NewForm()
	if err := applyDraft(c, a.admins.Contact.Schema(), &form); err != nil {
		respondPanelError(c, err)
		return
	}

	saved, err := a.admins.Contact.Save(ctx, form)
	if err != nil {
		respondPanelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact info saved", "item": saved})
}
