package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"sort"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	dErrors "carpeta/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed JSON request body size (64 KB).
	MaxBodySize = 64 * 1024

	// MaxUploadSize caps a single multipart document upload (25 MB).
	MaxUploadSize = 25 << 20
)

// Pagination limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// String element length limits
const (
	MaxFullNameLength    = 200
	MaxAddressLength     = 300
	MaxOperatorIDLength  = 100
	MaxReasonLength      = 500
	MaxTitleLength       = 200
	MaxDocTypeLength     = 50
	MaxContextLength     = 50
	MaxDescriptionLength = 500
	MaxFileNameLength    = 255
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// NormalizePageSize maps non-positive sizes to the default and clamps to MaxPageSize.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// citizenIDPattern mirrors domain.ParseCitizenID for request DTOs.
var citizenIDPattern = regexp.MustCompile(`^[0-9]{6,12}$`)

// CitizenID is the ozzo rule for a national citizen ID.
var CitizenID = ozzo.Match(citizenIDPattern).Error("must have between 6 and 12 digits")

// Email accepts a bare RFC 5322 address. Empty values pass; pair with ozzo.Required.
var Email = ozzo.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return errors.New("must be a valid email address")
	}
	return nil
})

// Struct runs ozzo field rules against req and reports the first failing field
// (in field-name order) as a validation error.
func Struct(req any, fields ...*ozzo.FieldRules) error {
	err := ozzo.ValidateStruct(req, fields...)
	if err == nil {
		return nil
	}
	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "request validation failed")
	}
	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	sort.Strings(names)
	first := names[0]
	return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s %s", first, fieldErrs[first].Error()))
}
