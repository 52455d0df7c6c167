package models

type Sponsor struct {
	ID         int     `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	Tagline    string  `json:"tagline,omitempty" db:"tagline"`
	WebsiteURL string  `json:"website_url,omitempty" db:"website_url"`
	SortOrder  int     `json:"sort_order" db:"sort_order"`
	LogoKey    *string `json:"-" db:"logo_key"`
	LogoURL    *string `json:"logo_url,omitempty" db:"-"`
}
