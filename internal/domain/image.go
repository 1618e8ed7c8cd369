package domain

import "time"

// Image is an uploaded file served from the uploads directory.
type Image struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	StorageKey  string    `json:"-"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}
