package models

import (
	"gorm.io/datatypes"
)

type ImportErrorDetail struct {
	RowIndex     *int           `json:"row_index"`
	ErrorMessage string         `json:"error_message"`
	Data         datatypes.JSON `json:"data,omitempty"` // offending row, kept verbatim
}

// HasData reports whether the server echoed the offending row back.
func (e ImportErrorDetail) HasData() bool {
	s := string(e.Data)
	return s != "" && s != "null"
}

type ImportSummary struct {
	ImportedCount int                 `json:"imported_count"`
	FailedCount   int                 `json:"failed_count"`
	SkippedCount  int                 `json:"skipped_count"`
	Errors        []ImportErrorDetail `json:"errors"`
}

// ExportFile is a downloaded question export.
type ExportFile struct {
	Filename string
	Content  []byte
}
