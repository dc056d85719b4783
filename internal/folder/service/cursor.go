package service

import (
	"encoding/base64"

	dErrors "carpeta/pkg/domain-errors"
)

var errInvalidCursor = dErrors.New(dErrors.CodeBadRequest, "invalid pagination cursor")

// encodeCursor wraps the last document ID of a page.
func encodeCursor(documentID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(documentID))
}

// decodeCursor returns "" for an empty cursor.
func decodeCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil || len(raw) == 0 {
		return "", errInvalidCursor
	}
	return string(raw), nil
}
