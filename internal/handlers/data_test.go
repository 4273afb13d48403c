package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasperFyhn/ulgis/internal/apierr"
	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/options"
	"github.com/KasperFyhn/ulgis/internal/types"
)

type fakeTaxonomyService struct {
	taxonomies []*types.Taxonomy
	docs       map[string]options.TaxonomyDoc
	err        error

	created *types.Taxonomy
	updated *types.Taxonomy
	deleted uuid.UUID
}

func (f *fakeTaxonomyService) List(ctx context.Context) ([]*types.Taxonomy, error) {
	return f.taxonomies, f.err
}

func (f *fakeTaxonomyService) Docs(ctx context.Context) (map[string]options.TaxonomyDoc, []*types.Taxonomy, error) {
	return f.docs, f.taxonomies, f.err
}

func (f *fakeTaxonomyService) Create(ctx context.Context, taxonomy *types.Taxonomy) (*types.Taxonomy, error) {
	f.created = taxonomy
	return taxonomy, f.err
}

func (f *fakeTaxonomyService) Update(ctx context.Context, taxonomy *types.Taxonomy) (*types.Taxonomy, error) {
	f.updated = taxonomy
	return taxonomy, f.err
}

func (f *fakeTaxonomyService) Delete(ctx context.Context, taxonomyID uuid.UUID) error {
	f.deleted = taxonomyID
	return f.err
}

func newDataRouter(t *testing.T, service *fakeTaxonomyService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	handler := NewDataHandler(log, service)
	router := gin.New()
	router.GET("/data/taxonomies", handler.ListTaxonomies)
	router.GET("/data/taxonomy_descriptions", handler.TaxonomyDescriptions)
	router.POST("/data/taxonomies", handler.CreateTaxonomy)
	router.PUT("/data/taxonomies/:id", handler.UpdateTaxonomy)
	router.DELETE("/data/taxonomies/:id", handler.DeleteTaxonomy)
	return router
}

func TestListTaxonomies(t *testing.T) {
	service := &fakeTaxonomyService{taxonomies: []*types.Taxonomy{
		{Name: "Bloom's Taxonomy"},
	}}
	router := newDataRouter(t, service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/taxonomies", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var listed []types.Taxonomy
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "Bloom's Taxonomy" {
		t.Fatalf("listed = %+v", listed)
	}
}

func TestTaxonomyDescriptions(t *testing.T) {
	service := &fakeTaxonomyService{docs: map[string]options.TaxonomyDoc{
		"Bloom's Taxonomy": {Text: "Bloom's Taxonomy structures cognitive skills."},
	}}
	router := newDataRouter(t, service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/taxonomy_descriptions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var descriptions map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &descriptions); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if descriptions["Bloom's Taxonomy"] != "Bloom's Taxonomy structures cognitive skills." {
		t.Fatalf("descriptions = %v", descriptions)
	}
}

func TestCreateTaxonomy(t *testing.T) {
	service := &fakeTaxonomyService{}
	router := newDataRouter(t, service)

	payload := `{
		"name": "SOLO Taxonomy",
		"text": "SOLO stands for Structure of Observed Learning Outcomes.",
		"priority": 4,
		"parameters": [{"name": "unistructural"}, {"name": "relational", "disabled": true}]
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/data/taxonomies",
		strings.NewReader(payload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if service.created == nil {
		t.Fatal("service not called")
	}
	if service.created.StepType != types.StepTypeLevel {
		t.Fatalf("step type = %q, want default level", service.created.StepType)
	}
	if len(service.created.Parameters) != 2 {
		t.Fatalf("parameters = %+v", service.created.Parameters)
	}
	if service.created.Parameters[1].Position != 1 || !service.created.Parameters[1].Disabled {
		t.Fatalf("second parameter = %+v", service.created.Parameters[1])
	}
}

func TestCreateTaxonomy_MissingName(t *testing.T) {
	router := newDataRouter(t, &fakeTaxonomyService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/data/taxonomies",
		strings.NewReader(`{"text": "no name"}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestUpdateTaxonomy(t *testing.T) {
	service := &fakeTaxonomyService{}
	router := newDataRouter(t, service)
	taxonomyID := uuid.New()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut,
		"/data/taxonomies/"+taxonomyID.String(),
		strings.NewReader(`{"name": "Renamed"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if service.updated == nil || service.updated.ID != taxonomyID {
		t.Fatalf("updated = %+v", service.updated)
	}
}

func TestUpdateTaxonomy_BadID(t *testing.T) {
	router := newDataRouter(t, &fakeTaxonomyService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut,
		"/data/taxonomies/not-a-uuid", strings.NewReader(`{"name": "x"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteTaxonomy(t *testing.T) {
	service := &fakeTaxonomyService{}
	router := newDataRouter(t, service)
	taxonomyID := uuid.New()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete,
		"/data/taxonomies/"+taxonomyID.String(), nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if service.deleted != taxonomyID {
		t.Fatalf("deleted = %s", service.deleted)
	}
}

func TestDeleteTaxonomy_NotFound(t *testing.T) {
	service := &fakeTaxonomyService{
		err: apierr.New(http.StatusNotFound, "taxonomy_not_found", nil),
	}
	router := newDataRouter(t, service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete,
		"/data/taxonomies/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if envelope.Error.Code != "taxonomy_not_found" {
		t.Fatalf("code = %q", envelope.Error.Code)
	}
}
