package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"dataroom/internal/model"
	"dataroom/internal/service"
)

type shareResponse struct {
	Token     string     `json:"token"`
	FolderID  string     `json:"folder_id"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func newShareResponse(l *model.SharedLink) shareResponse {
	return shareResponse{
		Token:     l.Token,
		FolderID:  l.FolderID,
		URL:       "/share/" + l.Token,
		CreatedAt: l.CreatedAt,
		ExpiresAt: l.ExpiresAt,
	}
}

// IssueShare returns the folder's active share link, creating it on first use.
//
// @Summary Share folder
// @Tags shares
// @Produce json
// @Param id path string true "Folder id"
// @Success 200 {object} shareResponse
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/folders/{id}/share [post]
func IssueShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		link, err := svc.Issue(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newShareResponse(link))
	}
}

// GetShare reports the folder's active share link, 404 when it has none.
func GetShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		link, err := svc.Get(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newShareResponse(link))
	}
}

// RevokeShare deletes the folder's share link. Revoking an unshared folder succeeds.
func RevokeShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Revoke(c.UserContext(), principal(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SharedRoot describes the folder behind a share token.
//
// @Summary Shared folder info
// @Tags public
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} publicRoot
// @Failure 404 {object} errorPayload
// @Router /share/{token} [get]
func SharedRoot(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		root, err := svc.SharedRoot(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newPublicRoot(root))
	}
}

// SharedItems lists one level of the shared subtree. folder_id defaults to the shared root.
//
// @Summary Browse shared folder
// @Tags public
// @Produce json
// @Param token path string true "Share token"
// @Param folder_id query string false "Folder inside the shared subtree"
// @Success 200 {object} publicContents
// @Failure 404 {object} errorPayload
// @Router /share/{token}/items [get]
func SharedItems(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folderID, ok := folderRef(c.Query("folder_id"))
		if !ok {
			return invalidID(c)
		}
		contents, err := svc.ListSharedChildren(c.UserContext(), c.Params("token"), folderID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newPublicContents(contents))
	}
}

// SharedPath returns the breadcrumb from the shared root down to folder_id.
func SharedPath(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folderID, ok := folderRef(c.Query("folder_id"))
		if !ok {
			return invalidID(c)
		}
		path, err := svc.SharedPath(c.UserContext(), c.Params("token"), folderID)
		if err != nil {
			return writeServiceError(c, err)
		}
		// The path starts at the shared root.
		var rootID string
		if len(path) > 0 {
			rootID = path[0].ID
		}
		return c.JSON(list(newPublicFolders(path, rootID)))
	}
}

// SharedFileURL returns a signed URL for a file inside the shared subtree.
func SharedFileURL(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		ttl, ok := ttlQuery(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TTL", "ttl must be between 1 and 86400 seconds")
		}
		url, err := svc.SharedFileURL(c.UserContext(), c.Params("token"), id, ttl)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(signedURLResponse{URL: url})
	}
}
