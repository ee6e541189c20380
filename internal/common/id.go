package common

import (
	"github.com/google/uuid"
)

// NewReportID generates a unique stored report ID
// Format: rpt_<uuid>
func NewReportID() string {
	return "rpt_" + uuid.New().String()
}

// NewExportID generates a unique export history ID
// Format: exp_<uuid>
func NewExportID() string {
	return "exp_" + uuid.New().String()
}
