package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/studioadmin/internal/db"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/store"
	"gorm.io/gorm"
)

// TestimonialsAdmin lists and deletes student reviews. Reviews are
// submitted elsewhere, so the panel never creates or edits them.
type TestimonialsAdmin struct {
	*panel.Panel[db.Testimonial]
}

// TestimonialResource describes the testimonials collection, newest first.
func TestimonialResource() panel.Resource[db.Testimonial] {
	return panel.Resource[db.Testimonial]{
		Schema: panel.Schema{
			Collection: "testimonials",
			Path:       "testimonials",
			Title:      "Testimonials",
			Singular:   "Review",
			Order:      store.Desc("created_at"),
			Can:        panel.Capabilities{Delete: true},
			Fields: []panel.Field{
				{Name: "name", Label: "Name", Kind: panel.KindText, Required: true, InList: true},
				{Name: "course", Label: "Course", Kind: panel.KindText, InList: true},
				{Name: "stars", Label: "Stars", Kind: panel.KindNumber, Rules: "min=0,max=5", InList: true},
				{Name: "quote", Label: "Quote", Kind: panel.KindTextArea, Required: true, InList: true},
			},
		},
		Encode: func(t db.Testimonial) panel.Values {
			return panel.Values{
				"name":   t.Name,
				"course": t.Course,
				"stars":  strconv.Itoa(t.Stars),
				"quote":  t.Quote,
			}
		},
		Decode: func(v panel.Values) (db.Testimonial, error) {
			stars, err := strconv.Atoi(strings.TrimSpace(v["stars"]))
			if err != nil && strings.TrimSpace(v["stars"]) != "" {
				return db.Testimonial{}, fmt.Errorf("parse stars: %w", err)
			}
			return db.Testimonial{
				Name:   v["name"],
				Course: v["course"],
				Stars:  stars,
				Quote:  v["quote"],
			}, nil
		},
		Describe: func(t db.Testimonial) string {
			name := strings.TrimSpace(t.Name)
			if name == "" {
				name = "Unknown"
			}
			return fmt.Sprintf("review by %q", name)
		},
	}
}

// NewTestimonialsAdmin builds the testimonials panel over coll.
func NewTestimonialsAdmin(coll store.Collection[db.Testimonial]) *TestimonialsAdmin {
	return &TestimonialsAdmin{Panel: panel.New(TestimonialResource(), coll)}
}

// NewTestimonialsAdminFromDB builds the testimonials panel over the gorm store.
func NewTestimonialsAdminFromDB(gdb *gorm.DB) *TestimonialsAdmin {
	return NewTestimonialsAdmin(store.NewCollection[db.Testimonial](gdb, "testimonials"))
}
