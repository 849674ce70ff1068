package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/db"
	"github.com/studioadmin/internal/handler"
	"github.com/studioadmin/internal/router"
	"github.com/studioadmin/internal/service"
	"github.com/studioadmin/internal/storage"
	"github.com/studioadmin/internal/upload"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler   http.Handler
	admin     httpClient
	baseURL   string
	uploadDir string
	gdb       *gorm.DB
	reviews   []db.Testimonial
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func TestE2E_AllInterfaces(t *testing.T) {
	suite := newE2ESuite(t)

	t.Run("admin pages", suite.testAdminPages)
	t.Run("class lifecycle", suite.testClassLifecycle)
	t.Run("artwork upload", suite.testArtworkUpload)
	t.Run("testimonials", suite.testTestimonials)
	t.Run("contact", suite.testContact)
	t.Run("admin apis", suite.testAdminAPIs)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	base := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	reviews := []db.Testimonial{
		{Model: db.Model{CreatedAt: base}, Name: "Mara", Course: "Ink", Stars: 4, Quote: "Patient teacher"},
		{Model: db.Model{CreatedAt: base.Add(time.Hour)}, Name: "Jon", Course: "Oils", Stars: 5, Quote: "Loved it"},
	}
	if err := gdb.Create(&reviews).Error; err != nil {
		t.Fatalf("failed to seed testimonials: %v", err)
	}

	baseURL := "http://example.test"
	uploadDir := t.TempDir()
	bucket := storage.NewLocalBucket("artworks", uploadDir, baseURL, "/static/uploads")
	api := handler.NewAPI(gdb, service.NewAdmins(gdb, upload.NewUploader(bucket)), nil)

	engine, err := router.SetupRouter(api, router.Options{
		SessionSecret: "test-session-secret",
		UploadDir:     uploadDir,
		UploadURLPath: "/static/uploads",
		CacheControl:  "3600",
	})
	if err != nil {
		t.Fatalf("failed to set up router: %v", err)
	}

	return &e2eSuite{
		handler:   engine,
		admin:     newLocalClient(engine, true),
		baseURL:   baseURL,
		uploadDir: uploadDir,
		gdb:       gdb,
		reviews:   reviews,
	}
}

func (s *e2eSuite) testAdminPages(t *testing.T) {
	t.Helper()

	needs200 := []string{
		"/admin",
		"/admin/classes",
		"/admin/classes/new",
		"/admin/contact",
		"/admin/testimonials",
		"/admin/artworks",
		"/admin/artworks/new",
		"/healthz",
	}
	for _, path := range needs200 {
		resp := s.mustRequest(t, s.admin, http.MethodGet, path, nil, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s expected 200, got %d", path, resp.StatusCode)
		}
	}

	resp := s.mustRequest(t, s.admin, http.MethodGet, "/", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/admin" {
		t.Fatalf("root expected redirect to /admin, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/unknown", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown page expected 404, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Page not found") {
		t.Fatalf("unknown page: unexpected body")
	}
}

func (s *e2eSuite) testClassLifecycle(t *testing.T) {
	t.Helper()

	resp := s.postForm(t, "/admin/classes", url.Values{
		"icon":        {"Brush"},
		"title":       {"Intro to Oils"},
		"description": {"..."},
		"duration":    {"6 weeks"},
		"level":       {"Beginner"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("create class expected 303, got %d", resp.StatusCode)
	}

	var class db.ClassRecord
	if err := s.gdb.Where("title = ?", "Intro to Oils").First(&class).Error; err != nil {
		t.Fatalf("expected class to be stored: %v", err)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/classes", nil, nil)
	body := readBody(t, resp)
	resp.Body.Close()
	if !strings.Contains(body, "Class created: Intro to Oils.") || !strings.Contains(body, "Brush (painting)") {
		t.Fatalf("class list missing new row or flash")
	}

	resp = s.postForm(t, "/admin/classes/"+idStr(class.ID), url.Values{"level": {"Advanced"}})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("update class expected 303, got %d", resp.StatusCode)
	}
	var updated db.ClassRecord
	s.gdb.First(&updated, class.ID)
	if updated.Level != "Advanced" || updated.Title != "Intro to Oils" || updated.Duration != "6 weeks" {
		t.Fatalf("unexpected class after update: %+v", updated)
	}

	resp = s.postForm(t, "/admin/classes/"+idStr(class.ID), url.Values{"title": {"  Intro to Oils  "}, "description": {"line one\n"}})
	resp.Body.Close()
	s.gdb.First(&updated, class.ID)
	if updated.Title != "  Intro to Oils  " || updated.Description != "line one\n" {
		t.Fatalf("submitted values must be stored verbatim, got %q / %q", updated.Title, updated.Description)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/classes/"+idStr(class.ID)+"/delete", nil, nil)
	body = readBody(t, resp)
	resp.Body.Close()
	if !strings.Contains(body, "Delete   Intro to Oils  ?") {
		t.Fatalf("confirm page should name the class")
	}

	resp = s.postForm(t, "/admin/classes/"+idStr(class.ID)+"/delete", url.Values{"confirm": {"yes"}})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("delete class expected 303, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/classes/"+idStr(class.ID)+"/edit", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("editing a deleted class should redirect, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testArtworkUpload(t *testing.T) {
	t.Helper()

	resp := s.uploadArtwork(t, map[string]string{"title": "Harbor", "medium": "Oil"}, "harbor at dusk.png")
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("artwork upload expected 303, got %d", resp.StatusCode)
	}

	var artwork db.Artwork
	if err := s.gdb.Where("title = ?", "Harbor").First(&artwork).Error; err != nil {
		t.Fatalf("expected artwork to be stored: %v", err)
	}
	prefix := s.baseURL + "/static/uploads/artworks/art_"
	if !strings.HasPrefix(artwork.Src, prefix) || !strings.HasSuffix(artwork.Src, "_harbor_at_dusk.png") {
		t.Fatalf("unexpected artwork src %q", artwork.Src)
	}

	key := strings.TrimPrefix(artwork.Src, s.baseURL+"/static/uploads/artworks/")
	if _, err := os.Stat(filepath.Join(s.uploadDir, "artworks", key)); err != nil {
		t.Fatalf("expected uploaded file on disk: %v", err)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, strings.TrimPrefix(artwork.Src, s.baseURL), nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("uploaded image expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "max-age=3600" {
		t.Fatalf("unexpected cache-control %q", got)
	}

	resp = s.uploadArtwork(t, map[string]string{"title": "No image"}, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("artwork without image expected 400, got %d", resp.StatusCode)
	}

	// Editing without a new file keeps the image.
	resp = s.postMultipart(t, "/admin/artworks/"+idStr(artwork.ID), map[string]string{"title": "Harbor (final)"}, "")
	resp.Body.Close()
	var edited db.Artwork
	s.gdb.First(&edited, artwork.ID)
	if edited.Title != "Harbor (final)" || edited.Src != artwork.Src {
		t.Fatalf("unexpected artwork after edit: %+v", edited)
	}

	var count int64
	s.gdb.Model(&db.Artwork{}).Count(&count)
	if count != 1 {
		t.Fatalf("artwork without image must not be stored, found %d rows", count)
	}
}

func (s *e2eSuite) testTestimonials(t *testing.T) {
	t.Helper()

	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/testimonials", nil, nil)
	body := readBody(t, resp)
	resp.Body.Close()
	if strings.Index(body, "Jon") > strings.Index(body, "Mara") {
		t.Fatalf("expected newest testimonial first")
	}
	if !strings.Contains(body, "★★★★★") {
		t.Fatalf("expected star rating to be rendered")
	}

	target := s.reviews[1].ID
	resp = s.postForm(t, "/admin/testimonials/"+idStr(target)+"/delete", url.Values{})
	resp.Body.Close()
	var count int64
	s.gdb.Model(&db.Testimonial{}).Count(&count)
	if count != 2 {
		t.Fatalf("unconfirmed delete must keep the row, found %d", count)
	}

	resp = s.postForm(t, "/admin/testimonials/"+idStr(target)+"/delete", url.Values{"confirm": {"yes"}})
	resp.Body.Close()
	s.gdb.Model(&db.Testimonial{}).Count(&count)
	if count != 1 {
		t.Fatalf("confirmed delete should remove the row, found %d", count)
	}
}

func (s *e2eSuite) testContact(t *testing.T) {
	t.Helper()

	for _, headline := range []string{"Hello", "Hello again"} {
		resp := s.postForm(t, "/admin/contact", url.Values{"headline": {headline}, "email": {"studio@example.com"}})
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("save contact expected 303, got %d", resp.StatusCode)
		}
	}

	var rows []db.ContactInfo
	s.gdb.Find(&rows)
	if len(rows) != 1 || rows[0].Headline != "Hello again" {
		t.Fatalf("expected a single updated contact row, got %+v", rows)
	}

	resp := s.postForm(t, "/admin/contact", url.Values{"headline": {strings.Repeat("x", 201)}, "email": {"typed@example.com"}})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("overlong headline expected 400, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Headline must be at most 200 characters.") || !strings.Contains(body, "typed@example.com") {
		t.Fatalf("expected headline error with the typed email kept")
	}
}

func (s *e2eSuite) testAdminAPIs(t *testing.T) {
	t.Helper()

	resp := s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/classes", map[string]interface{}{
		"icon": "Palette", "title": "Color", "description": "Hue", "duration": "3 weeks", "level": "All Levels",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create class api expected 200, got %d", resp.StatusCode)
	}
	var created struct {
		Item db.ClassRecord `json:"item"`
	}
	decodeJSON(t, resp, &created)
	resp.Body.Close()

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/classes/"+idStr(created.Item.ID), nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unconfirmed delete expected 400, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/classes/"+idStr(created.Item.ID)+"?confirm=true", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirmed delete expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/testimonials", map[string]interface{}{"name": "x", "quote": "y"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("testimonials cannot be created, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/contact", map[string]interface{}{
		"headline": "Hello again", "email": "studio@example.com", "phone": "+1 555 0100",
	})
	var contact struct {
		Item db.ContactInfo `json:"item"`
	}
	decodeJSON(t, resp, &contact)
	resp.Body.Close()
	if contact.Item.Phone != "+1 555 0100" || contact.Item.Headline != "Hello again" {
		t.Fatalf("unexpected contact after api update: %+v", contact.Item)
	}
	var contacts int64
	s.gdb.Model(&db.ContactInfo{}).Count(&contacts)
	if contacts != 1 {
		t.Fatalf("api update must keep a single contact row, found %d", contacts)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/artworks", map[string]interface{}{
		"src": "https://elsewhere.example/not-uploaded.png", "title": "Forged",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("artwork with a client-supplied src expected 400, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/artworks", nil, nil)
	var list struct {
		Items []db.Artwork `json:"items"`
	}
	decodeJSON(t, resp, &list)
	resp.Body.Close()
	if len(list.Items) != 1 {
		t.Fatalf("expected one artwork from api, got %d", len(list.Items))
	}
}

func (s *e2eSuite) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	return s.mustRequest(t, s.admin, http.MethodPost, path, strings.NewReader(form.Encode()), headers)
}

func (s *e2eSuite) uploadArtwork(t *testing.T, fields map[string]string, fileName string) *http.Response {
	t.Helper()
	return s.postMultipart(t, "/admin/artworks", fields, fileName)
}

func (s *e2eSuite) postMultipart(t *testing.T, path string, fields map[string]string, fileName string) *http.Response {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}

	if fileName != "" {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				img.Set(x, y, color.RGBA{R: 10, G: 20, B: 200, A: 255})
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("failed to encode png: %v", err)
		}

		partHeader := textproto.MIMEHeader{}
		partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, "image", fileName))
		partHeader.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(partHeader)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(buf.Bytes()); err != nil {
			t.Fatalf("failed to write image: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	headers := map[string]string{
		"Content-Type": writer.FormDataContentType(),
	}
	return s.mustRequest(t, s.admin, http.MethodPost, path, body, headers)
}

func (s *e2eSuite) mustRequest(t *testing.T, client httpClient, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) mustRequestJSON(t *testing.T, client httpClient, method, path string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return s.mustRequest(t, client, method, path, bytes.NewReader(data), headers)
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}

func idStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
