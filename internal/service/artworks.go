package service

import (
	"context"
	"errors"

	"github.com/studioadmin/internal/db"
	"github.com/studioadmin/internal/panel"
	"github.com/studioadmin/internal/store"
	"github.com/studioadmin/internal/upload"
	"gorm.io/gorm"
)

// ArtworksAdmin handles the gallery: the image is uploaded first and the
// row is written only with the resulting URL.
type ArtworksAdmin struct {
	*panel.Panel[db.Artwork]
	uploader *upload.Uploader
}

// ArtworkResource describes the artworks collection.
func ArtworkResource() panel.Resource[db.Artwork] {
	return panel.Resource[db.Artwork]{
		Schema: panel.Schema{
			Collection: "artworks",
			Path:       "artworks",
			Title:      "Artworks",
			Singular:   "Artwork",
			Order:      store.Asc("id"),
			Can:        panel.Capabilities{Create: true, Update: true, Delete: true},
			Fields: []panel.Field{
				{Name: "src", Label: "Image", Kind: panel.KindImage, Required: true, InList: true},
				{Name: "title", Label: "Title", Kind: panel.KindText, Required: true, Rules: "max=200", InList: true},
				{Name: "description", Label: "Description", Kind: panel.KindTextArea},
				{Name: "medium", Label: "Medium", Kind: panel.KindText, Rules: "max=120", Placeholder: "e.g. Oil on canvas", InList: true},
				{Name: "year", Label: "Year", Kind: panel.KindText, Rules: "max=16", Placeholder: "e.g. 2024", InList: true},
				{Name: "size", Label: "Size", Kind: panel.KindText, Rules: "max=64", Placeholder: "e.g. 50 x 70 cm", InList: true},
			},
		},
		Encode: func(a db.Artwork) panel.Values {
			return panel.Values{
				"src":         a.Src,
				"title":       a.Title,
				"description": a.Description,
				"medium":      a.Medium,
				"year":        a.Year,
				"size":        a.Size,
			}
		},
		Decode: func(v panel.Values) (db.Artwork, error) {
			return db.Artwork{
				Src:         v["src"],
				Title:       v["title"],
				Description: v["description"],
				Medium:      v["medium"],
				Year:        v["year"],
				Size:        v["size"],
			}, nil
		},
		Describe: func(a db.Artwork) string {
			return a.Title
		},
	}
}

// NewArtworksAdmin builds the artworks panel over coll, uploading through up.
func NewArtworksAdmin(coll store.Collection[db.Artwork], up *upload.Uploader) *ArtworksAdmin {
	return &ArtworksAdmin{Panel: panel.New(ArtworkResource(), coll), uploader: up}
}

// NewArtworksAdminFromDB builds the artworks panel over the gorm store.
func NewArtworksAdminFromDB(gdb *gorm.DB, up *upload.Uploader) *ArtworksAdmin {
	return NewArtworksAdmin(store.NewCollection[db.Artwork](gdb, "artworks"), up)
}

// Save validates the draft, uploads file when one was picked (keeping the
// draft's src otherwise), then writes the row. A failed upload aborts
// before any row write.
func (a *ArtworksAdmin) Save(ctx context.Context, form panel.Form, file *upload.File) (db.Artwork, error) {
	if err := a.Validate(form, "src"); err != nil {
		return db.Artwork{}, err
	}

	src, err := a.uploader.ResolveSource(ctx, file, form.Get("src"))
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrImageRequired):
			return db.Artwork{}, panel.FieldError("src", "Please upload an artwork image.", err)
		case errors.Is(err, upload.ErrNotImage), errors.Is(err, upload.ErrTooLarge):
			return db.Artwork{}, panel.FieldError("src", err.Error(), err)
		}
		return db.Artwork{}, err
	}

	form.Values = form.Values.Clone()
	form.Set("src", src)
	return a.Submit(ctx, form)
}
