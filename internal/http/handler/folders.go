package handler

import (
	"github.com/gofiber/fiber/v2"

	"dataroom/internal/model"
	"dataroom/internal/service"
)

type createFolderRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

type renameRequest struct {
	Name string `json:"name"`
}

// CreateFolder creates a folder under parent_id, or at the top level when parent_id is empty or "root".
//
// @Summary Create folder
// @Tags folders
// @Accept json
// @Produce json
// @Param body body createFolderRequest true "Folder"
// @Success 201 {object} model.Folder
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/folders [post]
func CreateFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createFolderRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		parentID, ok := folderRef(req.ParentID)
		if !ok {
			return invalidID(c)
		}

		f, err := svc.Create(c.UserContext(), principal(c), req.Name, parentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	}
}

// ListFolders lists the direct children of parent_id.
//
// @Summary List child folders
// @Tags folders
// @Produce json
// @Param parent_id query string false "Parent folder id, empty for top level"
// @Success 200 {object} listResponse[model.Folder]
// @Security BearerAuth
// @Router /api/folders [get]
func ListFolders(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID, ok := folderRef(c.Query("parent_id"))
		if !ok {
			return invalidID(c)
		}
		items, err := svc.ListChildren(c.UserContext(), principal(c), parentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list(items))
	}
}

// ListAllFolders returns every folder the caller owns.
func ListAllFolders(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListAll(c.UserContext(), principal(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list(items))
	}
}

// RenameFolder renames a folder in place. Sibling names stay unique.
//
// @Summary Rename folder
// @Tags folders
// @Accept json
// @Produce json
// @Param id path string true "Folder id"
// @Param body body renameRequest true "New name"
// @Success 200 {object} model.Folder
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/folders/{id} [patch]
func RenameFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		var req renameRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		f, err := svc.Rename(c.UserContext(), principal(c), id, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(f)
	}
}

// DeleteFolder removes the folder with its whole subtree, files and share links.
//
// @Summary Delete folder recursively
// @Tags folders
// @Param id path string true "Folder id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/folders/{id} [delete]
func DeleteFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), principal(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// FolderPath returns the breadcrumb from the top level down to the folder.
func FolderPath(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		path, err := svc.ResolvePath(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list[model.Folder](path))
	}
}
