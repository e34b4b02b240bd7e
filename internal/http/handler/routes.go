package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"dataroom/internal/service"
)

// Services bundles the domain services the HTTP layer exposes.
type Services struct {
	Folders service.FolderService
	Files   service.FileService
	Shares  service.ShareService
	Search  service.SearchService
	Batch   *service.BatchDeleter
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// requireAuth guards everything under /api; /share is public and authorized by its token alone.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, requireAuth fiber.Handler) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api", requireAuth)

	folders := api.Group("/folders")
	folders.Post("/", CreateFolder(svc.Folders))
	folders.Get("/", ListFolders(svc.Folders))
	folders.Get("/all", ListAllFolders(svc.Folders))
	folders.Patch("/:id", RenameFolder(svc.Folders))
	folders.Delete("/:id", DeleteFolder(svc.Folders))
	folders.Get("/:id/path", FolderPath(svc.Folders))
	folders.Post("/:id/share", IssueShare(svc.Shares))
	folders.Get("/:id/share", GetShare(svc.Shares))
	folders.Delete("/:id/share", RevokeShare(svc.Shares))

	files := api.Group("/files")
	files.Post("/", UploadFile(svc.Files))
	files.Get("/", ListFiles(svc.Files))
	files.Get("/all", ListAllFiles(svc.Files))
	files.Get("/duplicates", FindDuplicateFiles(svc.Files))
	files.Patch("/:id", RenameFile(svc.Files))
	files.Delete("/:id", DeleteFile(svc.Files))
	files.Get("/:id/url", FileURL(svc.Files))
	files.Get("/:id/content", FileContent(svc.Files))

	api.Post("/items/delete", DeleteItems(svc.Batch))
	api.Get("/search", Search(svc.Search))

	share := app.Group("/share/:token")
	share.Get("/", SharedRoot(svc.Shares))
	share.Get("/items", SharedItems(svc.Shares))
	share.Get("/path", SharedPath(svc.Shares))
	share.Get("/files/:id/url", SharedFileURL(svc.Shares))
}
