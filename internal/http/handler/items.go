package handler

import (
	"github.com/gofiber/fiber/v2"

	"dataroom/internal/http/middleware"
	"dataroom/internal/service"
)

// maxBatchItems bounds one bulk delete request.
const maxBatchItems = 500

type batchDeleteRequest struct {
	Items []service.BatchItem `json:"items"`
}

type itemOutcome struct {
	ID    string           `json:"id"`
	Type  service.ItemKind `json:"type"`
	OK    bool             `json:"ok"`
	Error *errorEnvelope   `json:"error,omitempty"`
}

type batchDeleteResponse struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []itemOutcome `json:"results"`
}

// DeleteItems deletes a mixed selection of folders and files. Each item succeeds or fails on its own.
//
// @Summary Bulk delete
// @Tags items
// @Accept json
// @Produce json
// @Param body body batchDeleteRequest true "Selection"
// @Success 200 {object} batchDeleteResponse
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /api/items/delete [post]
func DeleteItems(deleter *service.BatchDeleter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req batchDeleteRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		if len(req.Items) == 0 || len(req.Items) > maxBatchItems {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ITEMS", "items must contain between 1 and 500 entries")
		}
		for _, it := range req.Items {
			if it.Kind != service.KindFolder && it.Kind != service.KindFile {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ITEMS", "item type must be folder or file")
			}
			if _, ok := folderRef(it.ID); !ok || service.IsRootSentinel(it.ID) {
				return invalidID(c)
			}
		}

		res, err := deleter.Delete(c.UserContext(), principal(c), req.Items)
		if err != nil {
			return writeServiceError(c, err)
		}

		out := batchDeleteResponse{
			Succeeded: res.Succeeded,
			Failed:    res.Failed,
			Results:   make([]itemOutcome, 0, len(res.Results)),
		}
		for _, r := range res.Results {
			o := itemOutcome{ID: r.Item.ID, Type: r.Item.Kind, OK: r.Err == nil}
			if r.Err != nil {
				_, code, msg := classify(r.Err)
				o.Error = &errorEnvelope{Code: code, Message: msg}
			}
			out.Results = append(out.Results, o)
		}
		if batchErr := res.Err(); batchErr != nil {
			c.Locals(middleware.ErrorLocalKey, batchErr.Error())
		}
		return c.JSON(out)
	}
}

// Search matches folder and file names containing q, case-insensitively.
//
// @Summary Search by name
// @Tags items
// @Produce json
// @Param q query string true "Substring"
// @Success 200 {object} service.SearchResult
// @Security BearerAuth
// @Router /api/search [get]
func Search(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Search(c.UserContext(), principal(c), c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
