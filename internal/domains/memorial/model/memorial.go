package model

import (
	"time"
)

// Memorial is the persisted record, stored as one JSON document per slug.
// EditKey never leaves the record store except in the create response; every
// other read path goes through a DTO that does not carry the field.
type Memorial struct {
	Slug            string    `json:"slug"`
	PetName         string    `json:"petName"`
	ShortMessage    string    `json:"shortMessage"`
	MemorialContent string    `json:"memorialContent"`
	Images          []string  `json:"images"`
	Avatar          string    `json:"avatar,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	EditKey         string    `json:"editKey"`
}

// ImageURLs returns every blob URL the record references, gallery first,
// avatar last.
func (m *Memorial) ImageURLs() []string {
	urls := make([]string, 0, len(m.Images)+1)
	urls = append(urls, m.Images...)
	if m.Avatar != "" {
		urls = append(urls, m.Avatar)
	}
	return urls
}

// ToDTO strips the edit key for public consumption.
func (m *Memorial) ToDTO() *MemorialDTO {
	images := m.Images
	if images == nil {
		images = []string{}
	}
	return &MemorialDTO{
		Slug:            m.Slug,
		PetName:         m.PetName,
		ShortMessage:    m.ShortMessage,
		MemorialContent: m.MemorialContent,
		Images:          images,
		Avatar:          m.Avatar,
		CreatedAt:       m.CreatedAt,
	}
}

// ToSummary projects the record for batch lookups.
func (m *Memorial) ToSummary() *MemorialSummary {
	return &MemorialSummary{
		Slug:      m.Slug,
		PetName:   m.PetName,
		CreatedAt: m.CreatedAt,
	}
}
