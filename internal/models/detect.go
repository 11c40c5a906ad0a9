package models

import "github.com/gabriel-vasile/mimetype"

// DetectContentType sniffs payload for callers that do not know its tag.
// Anything that is neither JSON nor PNG is ContentTypeOther.
func DetectContentType(payload []byte) ContentType {
	for m := mimetype.Detect(payload); m != nil; m = m.Parent() {
		switch {
		case m.Is("application/json"):
			return ContentTypeJSON
		case m.Is(MIMEPNG):
			return ContentTypePNG
		}
	}
	return ContentTypeOther
}
