package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"complaint_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategories(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/categories", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data":   []model.Category{{ID: 1, Name: "Roads"}, {ID: 2, Name: "Water Supply"}},
			"source": "cache",
		})
	})

	client, _ := newTestClient(t, handler)
	categories, err := client.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Roads", categories[0].Name)
}

func TestListFiltered_EmptyFilterProducesNoQueryParameters(t *testing.T) {
	var gotPath, gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"data": []model.Complaint{}})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.ListFiltered(context.Background(), Filter{})

	require.NoError(t, err)
	assert.Equal(t, "/complaints", gotPath)
	assert.Empty(t, gotQuery)
}

func TestListFiltered_PresentFieldsOnlyTargetSameEndpoint(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": []model.Complaint{}})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.ListFiltered(context.Background(), Filter{Status: "resolved", District: "North"})

	require.NoError(t, err)
	assert.Equal(t, "/complaints", gotPath)
	assert.Equal(t, []string{"resolved"}, gotQuery["status"])
	assert.Equal(t, []string{"North"}, gotQuery["district"])
	assert.NotContains(t, gotQuery, "category")
	assert.NotContains(t, gotQuery, "userid")
}

func TestListMine(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/complaints/my", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []model.Complaint{{ID: 11, Title: "Pothole on Main St", Status: model.StatusPending}},
		})
	})

	client, _ := newTestClient(t, handler)
	complaints, err := client.ListMine(context.Background())

	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, int64(11), complaints[0].ID)
}

func TestSubmit_JSONWhenNoEvidence(t *testing.T) {
	var gotContentType string
	var gotReq model.CreateComplaintRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/complaints", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": model.Complaint{ID: 3, Title: gotReq.Title, Status: model.StatusPending},
		})
	})

	client, _ := newTestClient(t, handler)
	complaint, err := client.Submit(context.Background(), SubmitComplaintRequest{
		Title:       "Streetlight out",
		Description: "Dark corner at 5th and Oak",
		CategoryID:  3,
		Latitude:    41.2,
		Longitude:   69.1,
		IsPublic:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Streetlight out", gotReq.Title)
	assert.Equal(t, 3, gotReq.CategoryID)
	assert.True(t, gotReq.IsPublic)
	assert.Equal(t, int64(3), complaint.ID)
}

func TestSubmit_MultipartWhenEvidenceAttached(t *testing.T) {
	evidencePath := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(evidencePath, []byte("fake-jpeg-bytes"), 0o600))

	var gotContentType, gotTitle, gotFilename string
	var gotFile []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")

		file, header, err := r.FormFile("evidence")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		buf := make([]byte, header.Size)
		file.Read(buf)
		gotFile = buf

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": model.Complaint{ID: 4, Status: model.StatusPending},
		})
	})

	client, _ := newTestClient(t, handler)
	complaint, err := client.Submit(context.Background(), SubmitComplaintRequest{
		Title:        "Broken pipe",
		Description:  "Water leaking onto the street",
		CategoryID:   2,
		Latitude:     41.2,
		Longitude:    69.1,
		EvidencePath: evidencePath,
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data"))
	assert.Equal(t, "Broken pipe", gotTitle)
	assert.Equal(t, "photo.jpg", gotFilename)
	assert.Equal(t, []byte("fake-jpeg-bytes"), gotFile)
	assert.Equal(t, int64(4), complaint.ID)
}

func TestSubmit_MissingEvidenceFileIsNormalized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent when the evidence file cannot be read")
	})

	client, _ := newTestClient(t, handler)
	_, err := client.Submit(context.Background(), SubmitComplaintRequest{
		Title:        "x",
		Description:  "y",
		CategoryID:   1,
		EvidencePath: filepath.Join(t.TempDir(), "missing.jpg"),
	})

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.True(t, apiErr.IsNetwork())
}
