package handler

import (
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"dataroom/internal/model"
	"dataroom/internal/service"
)

type signedURLResponse struct {
	URL string `json:"url"`
}

type duplicatesResponse struct {
	Exists bool `json:"exists"`
	listResponse[model.File]
}

// UploadFile stores a PDF (multipart/form-data, field name: file) in folder_id.
//
// @Summary Upload PDF
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Param folder_id formData string false "Target folder, empty for top level"
// @Success 201 {object} model.File
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Security BearerAuth
// @Router /api/files [post]
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		folderID, ok := folderRef(c.FormValue("folder_id"))
		if !ok {
			return invalidID(c)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct, _, err := mime.ParseMediaType(fh.Header.Get(fiber.HeaderContentType))
		if err != nil {
			ct = "application/octet-stream"
		}

		file, err := svc.Upload(c.UserContext(), principal(c), service.UploadInput{
			Body:        f,
			Name:        fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			FolderID:    folderID,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(file)
	}
}

// ListFiles lists the files directly inside folder_id.
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folderID, ok := folderRef(c.Query("folder_id"))
		if !ok {
			return invalidID(c)
		}
		items, err := svc.List(c.UserContext(), principal(c), folderID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list(items))
	}
}

// ListAllFiles returns every file the caller owns.
func ListAllFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListAll(c.UserContext(), principal(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list(items))
	}
}

// FindDuplicateFiles reports files in folder_id already named name. Uploads are never blocked by it.
//
// @Summary Check for same-named files
// @Tags files
// @Produce json
// @Param folder_id query string false "Folder id"
// @Param name query string true "File name"
// @Success 200 {object} duplicatesResponse
// @Security BearerAuth
// @Router /api/files/duplicates [get]
func FindDuplicateFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folderID, ok := folderRef(c.Query("folder_id"))
		if !ok {
			return invalidID(c)
		}
		items, err := svc.FindDuplicates(c.UserContext(), principal(c), folderID, c.Query("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(duplicatesResponse{Exists: len(items) > 0, listResponse: list(items)})
	}
}

// RenameFile renames a file. Duplicate file names are allowed.
//
// @Summary Rename file
// @Tags files
// @Accept json
// @Produce json
// @Param id path string true "File id"
// @Param body body renameRequest true "New name"
// @Success 200 {object} model.File
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/files/{id} [patch]
func RenameFile(svc service.FileService) fiber.Handler {
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

// DeleteFile removes the record, then the blob.
func DeleteFile(svc service.FileService) fiber.Handler {
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

// FileURL returns a time-limited download URL. ttl is in seconds.
//
// @Summary Signed download URL
// @Tags files
// @Produce json
// @Param id path string true "File id"
// @Param ttl query int false "Lifetime in seconds, at most 86400"
// @Success 200 {object} signedURLResponse
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/files/{id}/url [get]
func FileURL(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		ttl, ok := ttlQuery(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TTL", "ttl must be between 1 and 86400 seconds")
		}
		url, err := svc.SignedURL(c.UserContext(), principal(c), id, ttl)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(signedURLResponse{URL: url})
	}
}

// FileContent streams the PDF inline.
func FileContent(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		rc, f, err := svc.Open(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, f.ContentType)
		c.Set(fiber.HeaderContentDisposition, "inline; filename="+strconv.Quote(f.Name))
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(f.SizeBytes))
	}
}
