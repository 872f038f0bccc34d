package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Movie struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TmdbID          int            `gorm:"column:tmdb_id;index" json:"tmdb_id"`
	Title           string         `gorm:"column:title;not null;index" json:"title"`
	OriginalTitle   string         `gorm:"column:original_title" json:"original_title"`
	Year            int            `gorm:"column:year;index" json:"year"`
	ReleaseDate     *time.Time     `gorm:"column:release_date" json:"release_date,omitempty"`
	PrimaryGenre    string         `gorm:"column:primary_genre;not null;index" json:"primary_genre"`
	SecondaryGenres datatypes.JSON `gorm:"type:jsonb;column:secondary_genres" json:"secondary_genres"`
	Subgenres       datatypes.JSON `gorm:"type:jsonb;column:subgenres" json:"subgenres"`
	PosterURL       string         `gorm:"column:poster_url" json:"poster_url,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (Movie) TableName() string { return "movie" }
