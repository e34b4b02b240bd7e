package service

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("a folder with this name already exists in this location")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidFileType   = errors.New("only PDF files are allowed")
	ErrFileTooLarge      = errors.New("file exceeds the maximum upload size")
	ErrInvalidUpload     = errors.New("upload body is missing or has a negative size")
	ErrInvalidShareToken = errors.New("invalid share token")
	ErrStorage           = errors.New("storage operation failed")
	ErrPersistence       = errors.New("persistence failed")
)

const (
	// PDFContentType is the only MIME type accepted for uploads.
	PDFContentType = "application/pdf"
	// DefaultMaxUploadBytes is 10 MiB.
	DefaultMaxUploadBytes int64 = 10 << 20
	// MaxNameLength bounds folder and file names.
	MaxNameLength = 255
)

var tracer = otel.Tracer("dataroom/internal/service")

// rootSentinels are caller placeholders meaning "top level".
var rootSentinels = map[string]struct{}{
	"":     {},
	"root": {},
	"null": {},
}

// IsRootSentinel reports whether id is a placeholder for the top level rather than a folder id.
func IsRootSentinel(id string) bool {
	_, ok := rootSentinels[strings.TrimSpace(id)]
	return ok
}

// normalizeFolderID maps root sentinels to nil and returns a pointer to any real id.
func normalizeFolderID(id string) *string {
	if IsRootSentinel(id) {
		return nil
	}
	id = strings.TrimSpace(id)
	return &id
}

func requirePrincipal(p model.Principal) error {
	if p.Anonymous() {
		return ErrUnauthorized
	}
	return nil
}

// cleanName trims name and validates what is left.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	err := validation.Validate(name,
		validation.Required,
		validation.RuneLength(1, MaxNameLength),
		validation.By(func(v any) error {
			if strings.ContainsAny(v.(string), "/\x00") {
				return errors.New("must not contain '/'")
			}
			return nil
		}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	return name, nil
}

// persistErr converts repository errors into service sentinels.
func persistErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
