package client

import (
	"context"
	"net/url"
	"strconv"
)

// UploadService handles document upload operations.
type UploadService struct {
	c *Client
}

// uploadListResponse wraps the upload list response.
type uploadListResponse struct {
	Uploads []UploadSummary `json:"uploads"`
	Count   int             `json:"count"`
}

// Create registers an extracted document and runs it through the pipeline.
func (s *UploadService) Create(ctx context.Context, req *CreateUploadRequest) (*Upload, error) {
	var up Upload
	if err := s.c.post(ctx, "/api/v1/uploads", req, &up); err != nil {
		return nil, err
	}
	return &up, nil
}

// Get returns a single upload by ID.
func (s *UploadService) Get(ctx context.Context, id string) (*Upload, error) {
	var up Upload
	if err := s.c.get(ctx, "/api/v1/uploads/"+url.PathEscape(id), nil, &up); err != nil {
		return nil, err
	}
	return &up, nil
}

// List returns upload summaries for the authenticated firm, newest first.
func (s *UploadService) List(ctx context.Context, limit int) ([]UploadSummary, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp uploadListResponse
	if err := s.c.get(ctx, "/api/v1/uploads", params, &resp); err != nil {
		return nil, err
	}
	return resp.Uploads, nil
}
