package service

import (
	"github.com/studioadmin/internal/db"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/store"
	"gorm.io/gorm"
)

var (
	ClassIcons  = []string{"PenTool", "Palette", "Brush", "Droplets"}
	ClassLevels = []string{"Beginner", "Intermediate", "Advanced", "All Levels"}
)

// ClassesAdmin manages the classes shown on the site.
type ClassesAdmin struct {
	*panel.Panel[db.ClassRecord]
}

// ClassResource describes the classes collection.
func ClassResource() panel.Resource[db.ClassRecord] {
	return panel.Resource[db.ClassRecord]{
		Schema: panel.Schema{
			Collection: "classes",
			Path:       "classes",
			Title:      "Classes",
			Singular:   "Class",
			Order:      store.Asc("id"),
			Can:        panel.Capabilities{Create: true, Update: true, Delete: true},
			Fields: []panel.Field{
				{Name: "icon", Label: "Icon", Kind: panel.KindSelect, Required: true, Options: ClassIcons, InList: true},
				{Name: "title", Label: "Title", Kind: panel.KindText, Required: true, Rules: "max=200", Placeholder: "e.g. Drawing Fundamentals", InList: true},
				{Name: "description", Label: "Description", Kind: panel.KindTextArea, Required: true, InList: true},
				{Name: "duration", Label: "Duration", Kind: panel.KindText, Required: true, Rules: "max=80", Placeholder: "e.g. 8 weeks", InList: true},
				{Name: "level", Label: "Level", Kind: panel.KindSelect, Required: true, Options: ClassLevels, InList: true},
			},
		},
		Encode: func(c db.ClassRecord) panel.Values {
			return panel.Values{
				"icon":        c.Icon,
				"title":       c.Title,
				"description": c.Description,
				"duration":    c.Duration,
				"level":       c.Level,
			}
		},
		Decode: func(v panel.Values) (db.ClassRecord, error) {
			return db.ClassRecord{
				Icon:        v["icon"],
				Title:       v["title"],
				Description: v["description"],
				Duration:    v["duration"],
				Level:       v["level"],
			}, nil
		},
		Describe: func(c db.ClassRecord) string {
			return c.Title
		},
	}
}

// NewClassesAdmin builds the classes panel over coll.
func NewClassesAdmin(coll store.Collection[db.ClassRecord]) *ClassesAdmin {
	return &ClassesAdmin{Panel: panel.New(ClassResource(), coll)}
}

// NewClassesAdminFromDB builds the classes panel over the gorm store.
func NewClassesAdminFromDB(gdb *gorm.DB) *ClassesAdmin {
	return NewClassesAdmin(store.NewCollection[db.ClassRecord](gdb, "classes"))
}
