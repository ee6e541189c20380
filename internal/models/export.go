package models

import "time"

// ReportRecord is a stored report model. The model may be edited by a reviewer before export.
type ReportRecord struct {
	ID        string             `json:"id"` // rpt_{uuid}
	Model     ReportContentModel `json:"model"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ExportRecord is the history entry written for every successful export
type ExportRecord struct {
	ID                string    `json:"id"`                  // exp_{uuid}
	ReportID          string    `json:"report_id,omitempty"` // empty for ad-hoc exports
	Filename          string    `json:"filename"`
	SubjectName       string    `json:"subject_name"`
	PageCount         int       `json:"page_count"`
	SizeBytes         int64     `json:"size_bytes"`
	IncludeTranscript bool      `json:"include_transcript"`
	IncludeSignature  bool      `json:"include_signature"`
	OutputPath        string    `json:"output_path,omitempty"` // set when the file was saved to disk
	CreatedAt         time.Time `json:"created_at"`
}

// ExportArtifact is the produced document handed back to the caller
type ExportArtifact struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Content     []byte    `json:"-"`
	PageCount   int       `json:"page_count"`
	OutputPath  string    `json:"output_path,omitempty"`
	ExportID    string    `json:"export_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
