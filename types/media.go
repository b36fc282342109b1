package types

import "time"

// Media represents an uploaded file and the object that backs it.
type Media struct {
	// ID is the unique identifier of the media record.
	ID string `json:"id"`

	// Name is the original filename supplied by the uploader.
	Name string `json:"name"`

	// Filename is the generated name of the stored object.
	Filename string `json:"filename"`

	// Path is the public URL path under which the file is served
	// (e.g., "/uploads/1700000000000-123456789.png").
	Path string `json:"path"`

	// MimeType is the accepted MIME type of the file.
	MimeType string `json:"type"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// UploadedBy is the id of the uploading user. Only the uploader or an
	// admin may delete the media.
	UploadedBy string `json:"uploadedBy"`

	UploadedAt time.Time `json:"uploadedAt"`
}
