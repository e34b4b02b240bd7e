package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dataroom/internal/auth"
	"dataroom/internal/model"
	"dataroom/internal/service"
)

// maxURLTTL bounds the ttl query parameter of signed URL endpoints.
const maxURLTTL = 24 * time.Hour

func principal(c *fiber.Ctx) model.Principal {
	return auth.PrincipalFrom(c.UserContext())
}

// pathID returns the :id route parameter when it is a UUID.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// folderRef accepts a folder UUID or one of the top-level placeholders.
func folderRef(raw string) (string, bool) {
	if service.IsRootSentinel(raw) {
		return strings.TrimSpace(raw), true
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", false
	}
	return raw, true
}

// ttlQuery parses ttl as whole seconds. Zero means the service default.
func ttlQuery(c *fiber.Ctx) (time.Duration, bool) {
	raw := c.Query("ttl")
	if raw == "" {
		return 0, true
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0, false
	}
	ttl := time.Duration(secs) * time.Second
	if ttl > maxURLTTL {
		return 0, false
	}
	return ttl, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func invalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
}

// listResponse wraps collections the same way across endpoints.
type listResponse[T any] struct {
	Data []T `json:"data"`
}

func list[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Data: items}
}
