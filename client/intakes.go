package client

import (
	"context"
	"net/url"
	"strconv"
)

// IntakeService handles intake submission and dashboard operations.
type IntakeService struct {
	c *Client
}

// intakeListResponse wraps the intake list response.
type intakeListResponse struct {
	Intakes []Intake `json:"intakes"`
	Count   int      `json:"count"`
}

// Submit sends a public web-form submission against a published form slug.
// No API key is required; set the firm with WithFirmID.
func (s *IntakeService) Submit(ctx context.Context, slug string, req *SubmitIntakeRequest) (*Intake, error) {
	var in Intake
	if err := s.c.post(ctx, "/api/v1/forms/"+url.PathEscape(slug)+"/intakes", req, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// SubmitEmail sends an email-gateway submission.
func (s *IntakeService) SubmitEmail(ctx context.Context, req *EmailIntakeRequest) (*Intake, error) {
	var in Intake
	if err := s.c.post(ctx, "/api/v1/intakes/email", req, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// SubmitVoice sends a voice-transcription submission.
func (s *IntakeService) SubmitVoice(ctx context.Context, req *VoiceIntakeRequest) (*Intake, error) {
	var in Intake
	if err := s.c.post(ctx, "/api/v1/intakes/voice", req, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// List returns intakes for the authenticated firm, newest first.
func (s *IntakeService) List(ctx context.Context, opts *IntakeListOptions) ([]Intake, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Area != "" {
			params.Set("area", opts.Area)
		}
		if opts.Urgency != "" {
			params.Set("urgency", opts.Urgency)
		}
		if opts.From != "" {
			params.Set("from", opts.From)
		}
		if opts.To != "" {
			params.Set("to", opts.To)
		}
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
	}
	var resp intakeListResponse
	if err := s.c.get(ctx, "/api/v1/intakes", params, &resp); err != nil {
		return nil, err
	}
	return resp.Intakes, nil
}

// Get returns a single intake by ID.
func (s *IntakeService) Get(ctx context.Context, id string) (*Intake, error) {
	var in Intake
	if err := s.c.get(ctx, "/api/v1/intakes/"+url.PathEscape(id), nil, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// UpdateSummary replaces the reviewed enrichment summary on an intake.
func (s *IntakeService) UpdateSummary(ctx context.Context, id, summary string) (*Intake, error) {
	var in Intake
	body := map[string]string{"summary": summary}
	if err := s.c.patch(ctx, "/api/v1/intakes/"+url.PathEscape(id)+"/summary", body, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// UpdateStatus moves an intake through the review workflow.
func (s *IntakeService) UpdateStatus(ctx context.Context, id, status string) (*Intake, error) {
	var in Intake
	body := map[string]string{"status": status}
	if err := s.c.patch(ctx, "/api/v1/intakes/"+url.PathEscape(id)+"/status", body, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Export returns the finalized intake for downstream rendering.
// Intakes past their form's retention window return a 410; check with IsGone.
func (s *IntakeService) Export(ctx context.Context, id string) (*Intake, error) {
	var in Intake
	if err := s.c.get(ctx, "/api/v1/intakes/"+url.PathEscape(id)+"/export", nil, &in); err != nil {
		return nil, err
	}
	return &in, nil
}
