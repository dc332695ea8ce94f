package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"complaint_portal/internal/model"
)

// SubmitComplaintRequest is the client-side submission payload. When
// EvidencePath names a file the request goes out as multipart form data,
// otherwise as JSON.
type SubmitComplaintRequest struct {
	Title        string
	Description  string
	CategoryID   int
	District     string
	Latitude     float64
	Longitude    float64
	IsPublic     bool
	EvidencePath string
}

// Filter narrows the complaint feed. Empty fields are omitted from the
// query string; the endpoint is the same either way so the response
// envelope stays uniform.
type Filter struct {
	District string
	Category string
	Status   string
	UserID   string
}

// ListCategories fetches the complaint categories via GET /categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var resp struct {
		Data []model.Category `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/categories", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Submit registers a new complaint via POST /complaints.
func (c *Client) Submit(ctx context.Context, req SubmitComplaintRequest) (*model.Complaint, error) {
	var resp struct {
		Data *model.Complaint `json:"data"`
	}

	if req.EvidencePath == "" {
		var district *string
		if req.District != "" {
			district = &req.District
		}
		body, err := json.Marshal(model.CreateComplaintRequest{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			District:    district,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			IsPublic:    req.IsPublic,
		})
		if err != nil {
			return nil, networkError(err)
		}
		if err := c.do(ctx, http.MethodPost, "/complaints", bytes.NewReader(body), "application/json", &resp); err != nil {
			return nil, err
		}
		return resp.Data, nil
	}

	body, contentType, err := encodeMultipartComplaint(req)
	if err != nil {
		return nil, networkError(err)
	}
	if err := c.do(ctx, http.MethodPost, "/complaints", body, contentType, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func encodeMultipartComplaint(req SubmitComplaintRequest) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	fields := map[string]string{
		"title":       req.Title,
		"description": req.Description,
		"category":    strconv.Itoa(req.CategoryID),
		"latitude":    strconv.FormatFloat(req.Latitude, 'f', -1, 64),
		"longitude":   strconv.FormatFloat(req.Longitude, 'f', -1, 64),
		"is_public":   strconv.FormatBool(req.IsPublic),
	}
	if req.District != "" {
		fields["district"] = req.District
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	file, err := os.Open(req.EvidencePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open evidence file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("evidence", filepath.Base(req.EvidencePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create evidence part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to read evidence file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return buf, writer.FormDataContentType(), nil
}

// ListMine fetches the caller's own complaints via GET /complaints/my.
func (c *Client) ListMine(ctx context.Context) ([]model.Complaint, error) {
	var resp struct {
		Data []model.Complaint `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/complaints/my", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListFiltered fetches the triage feed via GET /complaints, serializing only
// the present filter fields. An empty filter produces no query parameters.
func (c *Client) ListFiltered(ctx context.Context, filter Filter) ([]model.Complaint, error) {
	params := url.Values{}
	if filter.District != "" {
		params.Set("district", filter.District)
	}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.UserID != "" {
		params.Set("userid", filter.UserID)
	}

	path := "/complaints"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp struct {
		Data []model.Complaint `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
