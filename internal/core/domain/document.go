package domain

import (
	"strings"
	"time"
)

// Document is a catalog row describing one uploaded file. The raw bytes live
// in object storage under StorageName; the row itself is immutable once
// created and ids are never reused.
type Document struct {
	ID               int64     `json:"id"`
	StorageName      string    `json:"storage_name"`
	OriginalFilename string    `json:"original_filename"`
	UploadTime       time.Time `json:"upload_time"`
	FilePath         string    `json:"file_path"`
}

// IsPDF reports whether the stored blob is treated as a PDF source. Only PDF
// documents contribute text during context assembly.
func (d *Document) IsPDF() bool {
	return strings.HasSuffix(strings.ToLower(d.FilePath), ".pdf")
}
