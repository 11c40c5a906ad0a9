package models

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "object-updater/internal/errors"
)

// ContentType is the caller-declared classification of a payload. It only
// controls the stored MIME metadata; the uploader never inspects payloads.
type ContentType int

const (
	ContentTypeOther ContentType = iota
	ContentTypeJSON
	ContentTypePNG
)

const (
	MIMEJSON = "application/json;charset=utf-8"
	MIMEPNG  = "image/png"
)

// MIME returns the content-type header for the tag. ok is false for
// ContentTypeOther, in which case no header is set and the store default applies.
func (c ContentType) MIME() (mime string, ok bool) {
	switch c {
	case ContentTypeJSON:
		return MIMEJSON, true
	case ContentTypePNG:
		return MIMEPNG, true
	default:
		return "", false
	}
}

func (c ContentType) String() string {
	switch c {
	case ContentTypeJSON:
		return "json"
	case ContentTypePNG:
		return "png"
	default:
		return "other"
	}
}

func (c ContentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return ContentTypeJSON, nil
	case "png":
		return ContentTypePNG, nil
	case "other", "":
		return ContentTypeOther, nil
	default:
		return ContentTypeOther, fmt.Errorf("unknown content type %q: %w", s, apperrors.ErrInvalidInput)
	}
}
