package models

import "time"

// PhotoUpload records one object in the photo bucket. The public URL is
// derived from the key at read time, never stored.
type PhotoUpload struct {
	ID          int       `json:"id" db:"id"`
	ObjectKey   string    `json:"-" db:"object_key"`
	Folder      string    `json:"folder" db:"folder"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	PostedAt    time.Time `json:"posted_at" db:"posted_at"`

	URL string `json:"url,omitempty" db:"-"`
}

// PhotoAdmin names a player allowed to moderate the photo wall without the
// full league-admin passcode.
type PhotoAdmin struct {
	ID         int       `json:"id" db:"id"`
	PlayerName string    `json:"player_name" db:"player_name"`
	AddedBy    string    `json:"added_by" db:"added_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
