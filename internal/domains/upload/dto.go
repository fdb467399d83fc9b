package upload

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Only image uploads are ever issued URLs; the browser resizes before
// uploading, the server never touches the bytes.
var imageContentType = regexp.MustCompile(`^image/[a-z0-9.+-]+$`)

// IssueUploadURLRequest is the POST /upload-url payload. The filename is
// used only to derive an extension; the content type is baked into the
// presigned request so the store enforces it.
type IssueUploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

func (r IssueUploadURLRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Filename,
			validation.Required.Error("filename is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.ContentType,
			validation.Required.Error("contentType is required"),
			validation.Match(imageContentType).Error("contentType must be an image MIME type"),
		),
	)
}

// UploadURLResponse pairs the short-lived write URL with the public URL the
// client should reference in the memorial record after the PUT succeeds.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}
