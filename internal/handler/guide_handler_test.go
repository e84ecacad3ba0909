package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/internal/domain"
	"github.com/nexthub/intranet-backend/pkg/cache"
)

func newGuideRouter(repo *fakeGuideRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGuideHandler(repo, cache.NewService(nil))
	r := gin.New()
	r.GET("/api/guides", h.ListGuides)
	r.GET("/api/guides/:slug", h.GetGuide)
	r.POST("/api/admin/guides", h.UpsertGuide)
	r.PATCH("/api/admin/guides/:slug/status", h.UpdateGuideStatus)
	r.DELETE("/api/admin/guides/:slug", h.DeleteGuide)
	return r
}

func onboardingGuide() *domain.Guide {
	return &domain.Guide{
		ID:     "11111111-1111-1111-1111-111111111111",
		Slug:   "onboarding-checklist",
		Title:  str("Onboarding Checklist"),
		Body:   str("# Welcome\nStart here."),
		Status: str(domain.StatusApproved),
	}
}

func TestGetGuide_BySlug(t *testing.T) {
	r := newGuideRouter(newFakeGuideRepo(onboardingGuide()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/guides/onboarding-checklist", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var view map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if view["slug"] != "onboarding-checklist" {
		t.Errorf("slug = %v", view["slug"])
	}
	// Body must be withheld without ?include=body.
	if _, present := view["body"]; present {
		t.Error("body should be omitted from the summary response")
	}
}

func TestGetGuide_IncludeBody(t *testing.T) {
	r := newGuideRouter(newFakeGuideRepo(onboardingGuide()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/guides/onboarding-checklist?include=body", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var view map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if view["body"] != "# Welcome\nStart here." {
		t.Errorf("body = %v", view["body"])
	}
}

func TestGetGuide_IDFallback(t *testing.T) {
	repo := newFakeGuideRepo(onboardingGuide())
	r := newGuideRouter(repo)

	// Legacy callers pass the record id in the slug position.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/guides/11111111-1111-1111-1111-111111111111", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var view map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &view)
	if view["slug"] != "onboarding-checklist" {
		t.Errorf("slug = %v", view["slug"])
	}
}

func TestGetGuide_NotFound(t *testing.T) {
	r := newGuideRouter(newFakeGuideRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/guides/no-such-guide", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Guide not found" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestGetGuide_QueryFailure(t *testing.T) {
	repo := newFakeGuideRepo()
	repo.queryErr = errors.New("connection refused")
	r := newGuideRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/guides/onboarding-checklist", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("database error leaked into the response body")
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Internal server error" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestGetGuide_BlankSlugSkipsQuery(t *testing.T) {
	repo := newFakeGuideRepo(onboardingGuide())
	r := newGuideRouter(repo)

	// A URL-encoded space survives routing but trims to empty.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/guides/%20", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if repo.findCalls != 0 {
		t.Errorf("blank key reached the repository: %d calls", repo.findCalls)
	}
}

func TestListGuides_DefaultsToApproved(t *testing.T) {
	draft := &domain.Guide{ID: "d1", Slug: "draft-guide", Status: str(domain.StatusDraft)}
	repo := newFakeGuideRepo(onboardingGuide(), draft)
	r := newGuideRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/guides", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("data length = %d, want 1 (approved only)", len(body.Data))
	}
	if body.Data[0]["slug"] != "onboarding-checklist" {
		t.Errorf("slug = %v", body.Data[0]["slug"])
	}
}

func TestListGuides_EmptyIsDataArray(t *testing.T) {
	r := newGuideRouter(newFakeGuideRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/guides", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("empty listing must serialize as data: [], got %s", w.Body.String())
	}
}

func TestUpsertGuide(t *testing.T) {
	repo := newFakeGuideRepo()
	r := newGuideRouter(repo)

	payload := `{"slug":"expense-policy","title":"Expense Policy","status":"Draft"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/admin/guides", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if repo.bySlug["expense-policy"] == nil {
		t.Fatal("guide was not stored")
	}
	if *repo.bySlug["expense-policy"].Title != "Expense Policy" {
		t.Errorf("title = %q", *repo.bySlug["expense-policy"].Title)
	}
}

func TestUpsertGuide_ConflictKeepsStoredID(t *testing.T) {
	repo := newFakeGuideRepo(onboardingGuide())
	r := newGuideRouter(repo)

	payload := `{"slug":"onboarding-checklist","title":"Onboarding v2"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/admin/guides", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	// The response must carry the row as stored, not the insert candidate.
	if body.Data["id"] != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("id = %v, want the pre-existing record id", body.Data["id"])
	}
	if body.Data["title"] != "Onboarding v2" {
		t.Errorf("title = %v", body.Data["title"])
	}
}

func TestUpsertGuide_MissingSlug(t *testing.T) {
	r := newGuideRouter(newFakeGuideRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/admin/guides", strings.NewReader(`{"title":"No Slug"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateGuideStatus(t *testing.T) {
	repo := newFakeGuideRepo(onboardingGuide())
	r := newGuideRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/admin/guides/onboarding-checklist/status",
		strings.NewReader(`{"status":"Draft"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if *repo.bySlug["onboarding-checklist"].Status != domain.StatusDraft {
		t.Errorf("status = %q, want Draft", *repo.bySlug["onboarding-checklist"].Status)
	}
}

func TestUpdateGuideStatus_InvalidValue(t *testing.T) {
	r := newGuideRouter(newFakeGuideRepo(onboardingGuide()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/admin/guides/onboarding-checklist/status",
		strings.NewReader(`{"status":"Published"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteGuide_NotFound(t *testing.T) {
	r := newGuideRouter(newFakeGuideRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/admin/guides/no-such-guide", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
