package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
}

// UnmarshalJSON accepts the featured-image aliases different backend
// versions emit: featured_image_url, featured_image and image.
func (p *Post) UnmarshalJSON(data []byte) error {
	type alias Post
	aux := struct {
		*alias
		FeaturedImageAlt string `json:"featured_image"`
		Image            string `json:"image"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.FeaturedImage == "" {
		if aux.FeaturedImageAlt != "" {
			p.FeaturedImage = aux.FeaturedImageAlt
		} else {
			p.FeaturedImage = aux.Image
		}
	}
	return nil
}
