package models

// Quality is a recording profile: frame geometry plus frame rate.
type Quality struct {
	Resolution string `json:"resolution" db:"resolution"`
	FPS        int    `json:"fps" db:"fps"`
}
