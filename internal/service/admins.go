package service

import (
	"github.com/studioadmin/internal/upload"
	"gorm.io/gorm"
)

// Admins bundles the four content panels.
type Admins struct {
	Classes      *ClassesAdmin
	Contact      *ContactAdmin
	Testimonials *TestimonialsAdmin
	Artworks     *ArtworksAdmin
}

// NewAdmins wires every panel to the gorm store and the artwork uploader.
func NewAdmins(gdb *gorm.DB, up *upload.Uploader) Admins {
	return Admins{
		Classes:      NewClassesAdminFromDB(gdb),
		Contact:      NewContactAdminFromDB(gdb),
		Testimonials: NewTestimonialsAdminFromDB(gdb),
		Artworks:     NewArtworksAdminFromDB(gdb, up),
	}
}
