package client

import (
	"context"
	"net/url"
)

// FormService handles intake form management.
type FormService struct {
	c *Client
}

// formListResponse wraps the form list response.
type formListResponse struct {
	Forms []Form `json:"forms"`
	Count int    `json:"count"`
}

// Create creates an intake form.
func (s *FormService) Create(ctx context.Context, req *CreateFormRequest) (*Form, error) {
	var form Form
	if err := s.c.post(ctx, "/api/v1/forms", req, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// Get returns a form by slug.
func (s *FormService) Get(ctx context.Context, slug string) (*Form, error) {
	var form Form
	if err := s.c.get(ctx, "/api/v1/forms/"+url.PathEscape(slug), nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// List returns all forms for the authenticated firm.
func (s *FormService) List(ctx context.Context) ([]Form, error) {
	var resp formListResponse
	if err := s.c.get(ctx, "/api/v1/forms", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Forms, nil
}
