package models

import "time"

// Image is the metadata record for an asset stored in the object bucket.
// Key identifies the object in the bucket; URL is where it is served from.
type Image struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	URL          string `gorm:"not null" json:"url"`
	Key          string `gorm:"not null" json:"key"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	UploadedBy   uint   `json:"uploadedBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
