package service

import (
	"context"
	"fmt"

	"github.com/studioadmin/internal/db"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/store"
	"gorm.io/gorm"
)

// ContactAdmin 维护唯一的一行联系信息：存在则按 ID 更新，否则新建
type ContactAdmin struct {
	*panel.Panel[db.ContactInfo]
}

// ContactResource describes the contact_info collection.
func ContactResource() panel.Resource[db.ContactInfo] {
	return panel.Resource[db.ContactInfo]{
		Schema: panel.Schema{
			Collection: "contact_info",
			Path:       "contact",
			Title:      "Contact",
			Singular:   "Contact info",
			Order:      store.Asc("id"),
			Can:        panel.Capabilities{Create: true, Update: true},
			Fields: []panel.Field{
				{Name: "headline", Label: "Headline", Kind: panel.KindText, Rules: "max=200"},
				{Name: "subheadline", Label: "Subheadline", Kind: panel.KindTextArea, Rules: "max=255"},
				{Name: "email", Label: "Email", Kind: panel.KindText, Rules: "max=255"},
				{Name: "phone", Label: "Phone", Kind: panel.KindText, Rules: "max=64"},
				{Name: "address", Label: "Address", Kind: panel.KindText, Rules: "max=255"},
				{Name: "map_url", Label: "Map URL", Kind: panel.KindText, Rules: "max=1024", Placeholder: "https://maps.google.com/..."},
			},
		},
		Encode: func(c db.ContactInfo) panel.Values {
			return panel.Values{
				"headline":    c.Headline,
				"subheadline": c.Subheadline,
				"email":       c.Email,
				"phone":       c.Phone,
				"address":     c.Address,
				"map_url":     c.MapURL,
			}
		},
		Decode: func(v panel.Values) (db.ContactInfo, error) {
			return db.ContactInfo{
				Headline:    v["headline"],
				Subheadline: v["subheadline"],
				Email:       v["email"],
				Phone:       v["phone"],
				Address:     v["address"],
				MapURL:      v["map_url"],
			}, nil
		},
	}
}

// NewContactAdmin 构造联系信息管理
func NewContactAdmin(coll store.Collection[db.ContactInfo]) *ContactAdmin {
	return &ContactAdmin{Panel: panel.New(ContactResource(), coll)}
}

// NewContactAdminFromDB builds the contact panel over the gorm store.
func NewContactAdminFromDB(gdb *gorm.DB) *ContactAdmin {
	return NewContactAdmin(store.NewCollection[db.ContactInfo](gdb, "contact_info"))
}

// CurrentForm 读取第一行联系信息并生成表单；表为空时返回空白表单
func (a *ContactAdmin) CurrentForm(ctx context.Context) (panel.Form, error) {
	row, err := a.Load(ctx)
	if err != nil {
		return a.NewForm(), err
	}
	if row == nil {
		return a.NewForm(), nil
	}
	return a.EditForm(*row), nil
}

// Save 以 upsert 方式保存联系信息。先校验草稿，再确认表中是否已有数据：
// 表单没有 ID 时按第一行更新，避免新建出第二行。
func (a *ContactAdmin) Save(ctx context.Context, form panel.Form) (db.ContactInfo, error) {
	if err := a.Validate(form); err != nil {
		return db.ContactInfo{}, err
	}

	if !form.Editing() {
		row, err := a.Load(ctx)
		if err != nil {
			return db.ContactInfo{}, fmt.Errorf("load contact info: %w", err)
		}
		if row != nil {
			form.ID = row.ID
		}
	}

	return a.Submit(ctx, form)
}
