package course

import "time"

// Media points at an externally stored media object.
type Media struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
}

// Lecture is a single unit of course content.
type Lecture struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Video       Media  `json:"lecture"`
}

// Course is a catalog entry. Lectures are stripped from listings and only
// served to entitled subscribers.
type Course struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	CreatedBy        string    `json:"created_by"`
	Thumbnail        Media     `json:"thumbnail"`
	Lectures         []Lecture `json:"lectures,omitempty"`
	NumberOfLectures int       `json:"number_of_lectures"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
