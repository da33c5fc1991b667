package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// extAliases maps alternate spellings to the extension mimetype reports.
var extAliases = map[string]string{
	".jpeg": ".jpg",
	".jpe":  ".jpg",
}

// Ext returns the extension to store the upload under. The sniffed content
// type wins over the client file name when the two disagree.
func (u *Upload) Ext() string {
	ext := strings.ToLower(filepath.Ext(u.Filename))

	var sniffed string
	if u.ContentType != "" {
		if m := mimetype.Lookup(u.ContentType); m != nil {
			sniffed = m.Extension()
		}
	}
	if sniffed == "" {
		return ext
	}

	canonical := ext
	if alias, ok := extAliases[ext]; ok {
		canonical = alias
	}
	if canonical == sniffed {
		return ext
	}
	return sniffed
}

// UploadError is a rejected upload. Message is shown next to the form field.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string { return e.Message }

var (
	coverTypes   = []string{"image/jpeg", "image/png", "image/gif"}
	previewTypes = []string{"application/pdf"}
)

// UploadValidator enforces type and size policy for book media.
type UploadValidator struct {
	CoverMaxKB        int
	CoverMaxDimension int
	PreviewMaxKB      int
}

func NewUploadValidator(coverMaxKB, coverMaxDimension, previewMaxKB int) *UploadValidator {
	return &UploadValidator{
		CoverMaxKB:        coverMaxKB,
		CoverMaxDimension: coverMaxDimension,
		PreviewMaxKB:      previewMaxKB,
	}
}

// Cover checks a cover image and returns the upload to store, downscaled
// when it exceeds CoverMaxDimension on either side.
func (v *UploadValidator) Cover(u *Upload) (*Upload, error) {
	if u == nil || len(u.Data) == 0 {
		return nil, &UploadError{Message: "must be an image"}
	}
	if len(u.Data) > v.CoverMaxKB*1024 {
		return nil, &UploadError{Message: fmt.Sprintf("must not be greater than %d kilobytes", v.CoverMaxKB)}
	}

	mime := mimetype.Detect(u.Data)
	if !mimetype.EqualsAny(mime.String(), coverTypes...) {
		return nil, &UploadError{Message: "must be a file of type: jpeg, png, gif"}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(u.Data))
	if err != nil {
		return nil, &UploadError{Message: "must be an image"}
	}

	out := &Upload{Filename: u.Filename, ContentType: mime.String(), Data: u.Data}
	if v.CoverMaxDimension <= 0 || (cfg.Width <= v.CoverMaxDimension && cfg.Height <= v.CoverMaxDimension) {
		return out, nil
	}

	resized, err := v.downscale(u.Data, mime.String())
	if err != nil {
		return nil, &UploadError{Message: "must be an image"}
	}
	out.Data = resized
	return out, nil
}

func (v *UploadValidator) downscale(data []byte, contentType string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	format := imaging.JPEG
	switch contentType {
	case "image/png":
		format = imaging.PNG
	case "image/gif":
		format = imaging.GIF
	}

	img = imaging.Fit(img, v.CoverMaxDimension, v.CoverMaxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Preview checks a preview document.
func (v *UploadValidator) Preview(u *Upload) (*Upload, error) {
	if u == nil || len(u.Data) == 0 {
		return nil, &UploadError{Message: "must be a file of type: pdf"}
	}
	if len(u.Data) > v.PreviewMaxKB*1024 {
		return nil, &UploadError{Message: fmt.Sprintf("must not be greater than %d kilobytes", v.PreviewMaxKB)}
	}

	mime := mimetype.Detect(u.Data)
	if !mimetype.EqualsAny(mime.String(), previewTypes...) {
		return nil, &UploadError{Message: "must be a file of type: pdf"}
	}

	return &Upload{Filename: u.Filename, ContentType: mime.String(), Data: u.Data}, nil
}
