package models

import "time"

type Announcement struct {
	ID       int       `json:"id" db:"id"`
	Body     string    `json:"body" db:"body"`
	Author   string    `json:"author" db:"author"`
	PostedAt time.Time `json:"posted_at" db:"posted_at"`

	Replies []AnnouncementReply `json:"replies" db:"-"`
}

type AnnouncementReply struct {
	ID             int       `json:"id" db:"id"`
	AnnouncementID int       `json:"announcement_id" db:"announcement_id"`
	Body           string    `json:"body" db:"body"`
	Author         string    `json:"author" db:"author"`
	PostedAt       time.Time `json:"posted_at" db:"posted_at"`
}
