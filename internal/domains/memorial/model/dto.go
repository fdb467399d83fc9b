package model

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"memorial-backend/internal/shared/utils"
)

// MaxImages caps the gallery size of one memorial.
const MaxImages = 12

// MaxBatchSlugs caps how many slugs one lookup request may carry.
const MaxBatchSlugs = 50

// ========================================
// REQUESTS
// ========================================

// CreateMemorialRequest is the POST /memorials payload. The slug arrives
// already normalized by the client; the server validates shape only.
type CreateMemorialRequest struct {
	Slug            string   `json:"slug"`
	PetName         string   `json:"petName"`
	ShortMessage    string   `json:"shortMessage"`
	MemorialContent string   `json:"memorialContent"`
	Images          []string `json:"images"`
	Avatar          string   `json:"avatar"`
}

func (r CreateMemorialRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug,
			validation.Required.Error("slug is required"),
			validation.Length(1, utils.MaxSlugLength),
			validation.Match(utils.SlugPattern).Error("slug may only contain lowercase letters, digits and hyphens"),
		),
		validation.Field(&r.PetName,
			validation.Required.Error("pet name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.ShortMessage, validation.Length(0, 300)),
		validation.Field(&r.Images,
			validation.Length(0, MaxImages).Error("too many images"),
			validation.Each(is.URL.Error("image must be a valid URL")),
		),
		validation.Field(&r.Avatar,
			validation.When(r.Avatar != "", is.URL.Error("avatar must be a valid URL")),
		),
	)
}

// UpdateMemorialRequest is the PUT /memorials/:slug payload. Patch semantics:
// nil pointers mean "keep the stored value". Avatar is tri-state because an
// explicit null clears it, which is different from not sending the field.
type UpdateMemorialRequest struct {
	PetName         *string        `json:"petName"`
	ShortMessage    *string        `json:"shortMessage"`
	MemorialContent *string        `json:"memorialContent"`
	Images          *[]string      `json:"images"`
	Avatar          OptionalString `json:"avatar"`
}

func (r UpdateMemorialRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PetName,
			validation.NilOrNotEmpty.Error("pet name must not be empty"),
			validation.Length(1, 100),
		),
		validation.Field(&r.ShortMessage, validation.Length(0, 300)),
		validation.Field(&r.Images,
			validation.Length(0, MaxImages).Error("too many images"),
			validation.Each(is.URL.Error("image must be a valid URL")),
		),
		validation.Field(&r.Avatar, validation.By(validateOptionalAvatar)),
	)
}

func validateOptionalAvatar(value interface{}) error {
	opt, ok := value.(OptionalString)
	if !ok || !opt.Set || !opt.Valid || opt.Value == "" {
		return nil
	}
	return validation.Validate(opt.Value, is.URL.Error("avatar must be a valid URL"))
}

// LookupRequest is the POST /memorials/lookup payload.
type LookupRequest struct {
	Slugs []string `json:"slugs"`
}

func (r LookupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slugs,
			validation.NotNil.Error("slugs is required"),
			validation.Length(0, MaxBatchSlugs).Error("too many slugs"),
		),
	)
}

// ========================================
// RESPONSES
// ========================================

// MemorialDTO is the public view of a record. It has no edit key field at
// all, so the secret cannot leak through serialization.
type MemorialDTO struct {
	Slug            string    `json:"slug"`
	PetName         string    `json:"petName"`
	ShortMessage    string    `json:"shortMessage"`
	MemorialContent string    `json:"memorialContent"`
	Images          []string  `json:"images"`
	Avatar          string    `json:"avatar,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateMemorialResponse carries the edit key exactly once, at creation.
// It is unrecoverable afterwards.
type CreateMemorialResponse struct {
	Slug      string    `json:"slug"`
	EditKey   string    `json:"editKey"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemorialSummary is the batch-lookup projection.
type MemorialSummary struct {
	Slug      string    `json:"slug"`
	PetName   string    `json:"petName"`
	CreatedAt time.Time `json:"createdAt"`
}

// ========================================
// OPTIONAL STRING
// ========================================

// OptionalString distinguishes "field absent" from "explicit null" from a
// concrete value when decoding JSON patches.
type OptionalString struct {
	Set   bool   // field was present in the payload
	Valid bool   // field carried a non-null value
	Value string //
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		o.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
