package api

import (
	"brickforge/internal/jobs"
	"brickforge/internal/parts"
)

// ProcessResponse acknowledges a processing submission.
type ProcessResponse struct {
	JobID     string `json:"job_id,omitempty"`
	SetNumber string `json:"set_number"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// StatusResponse reports the job lifecycle for a set. It mirrors the job
// record; unknown sets get the unknown sentinel rather than an error.
type StatusResponse struct {
	JobID       string                 `json:"job_id,omitempty"`
	SetNumber   string                 `json:"set_number"`
	Status      jobs.Status            `json:"status"`
	Progress    int                    `json:"progress"`
	Message     string                 `json:"message,omitempty"`
	CompletedAt string                 `json:"completed_at,omitempty"`
	Stats       *parts.ConversionStats `json:"stats,omitempty"`
}

// StatusFromRecord maps a registry snapshot onto the wire shape.
func StatusFromRecord(record jobs.Record) StatusResponse {
	resp := StatusResponse{
		JobID:     record.ID,
		SetNumber: record.SetNumber,
		Status:    record.Status,
		Progress:  record.Progress,
		Message:   record.Message,
		Stats:     record.Stats,
	}
	if record.CompletedAt != nil {
		resp.CompletedAt = record.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// ValidateResponse reports whether a set number resolves in the catalog and
// which candidate form matched.
type ValidateResponse struct {
	Valid     bool   `json:"valid"`
	SetNumber string `json:"set_number"`
	Resolved  string `json:"resolved,omitempty"`
	Name      string `json:"name,omitempty"`
	Year      int    `json:"year,omitempty"`
	NumParts  int    `json:"num_parts,omitempty"`
}

// SetSummary is one row in the processed-sets listing.
type SetSummary struct {
	SetNumber   string `json:"set_number"`
	Name        string `json:"name"`
	Released    string `json:"released"`
	Theme       string `json:"theme"`
	TotalParts  int    `json:"total_parts"`
	UniqueParts int    `json:"unique_parts"`
}

// SetsResponse lists every processed set.
type SetsResponse struct {
	Count int          `json:"count"`
	Sets  []SetSummary `json:"sets"`
}

// PartDetail is one inventory entry in a set detail view, annotated with
// whether its mesh artifact exists on disk.
type PartDetail struct {
	PartNum       string `json:"part_num"`
	ColorID       string `json:"color_id"`
	ColorName     string `json:"color_name"`
	ColorRGB      string `json:"color_rgb"`
	IsTransparent bool   `json:"is_transparent"`
	Quantity      int    `json:"quantity"`
	IsSpare       bool   `json:"is_spare"`
	STLExists     bool   `json:"stl_exists"`
}

// SetDetailResponse is the full view of one processed set.
type SetDetailResponse struct {
	SetNumber   string       `json:"set_number"`
	Name        string       `json:"name"`
	Released    string       `json:"released"`
	Theme       string       `json:"theme"`
	TotalParts  int          `json:"total_parts"`
	UniqueParts int          `json:"unique_parts"`
	Parts       []PartDetail `json:"parts"`
}

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
