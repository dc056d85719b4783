// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "carpeta/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing DocumentID where FolderID is expected.
type (
	FolderID   uuid.UUID
	DocumentID uuid.UUID
)

// CitizenID is the national identification number (cedula). It is the
// natural key for registrations and folder ownership.
type CitizenID string

const (
	minCitizenIDLength = 6
	maxCitizenIDLength = 12
)

// Parse functions - use at trust boundaries (handlers, API inputs, bus events).

func ParseFolderID(s string) (FolderID, error) {
	id, err := parseUUID(s, "folder ID")
	return FolderID(id), err
}

func ParseDocumentID(s string) (DocumentID, error) {
	id, err := parseUUID(s, "document ID")
	return DocumentID(id), err
}

// ParseCitizenID accepts 6 to 12 decimal digits after trimming whitespace.
func ParseCitizenID(s string) (CitizenID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "citizen ID cannot be empty")
	}
	if len(s) < minCitizenIDLength || len(s) > maxCitizenIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "citizen ID must have between 6 and 12 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "citizen ID must be numeric")
		}
	}
	return CitizenID(s), nil
}

func NewFolderID() FolderID     { return FolderID(uuid.New()) }
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// String methods - for logging, keys and wire formats.

func (id FolderID) String() string   { return uuid.UUID(id).String() }
func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id CitizenID) String() string  { return string(id) }

// IsNil checks - used for service-layer validation.

func (id FolderID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CitizenID) IsNil() bool  { return id == "" }

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}
