package surface

import (
	"encoding/json"
	"errors"
	"strings"

	"surface-renderer/core/diff"
	"surface-renderer/core/document"
	"surface-renderer/core/logger"
	"surface-renderer/core/reconcile"
	"surface-renderer/core/render"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxJournalLimit = 200

// RenderResponse acknowledges an admitted render.
type RenderResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
}

// DuplicateResponse lists the keys that made a render invalid.
type DuplicateResponse struct {
	Error      string                `json:"error"`
	Duplicates []reconcile.Duplicate `json:"duplicates"`
}

// RowResponse describes a row found by identity.
type RowResponse struct {
	Section string         `json:"section"`
	Row     string         `json:"row"`
	Index   reconcile.Path `json:"index"`
	State   any            `json:"state,omitempty"`
}

// DiffRequest holds two documents to compare.
type DiffRequest struct {
	Old json.RawMessage `json:"old" swaggertype:"object"`
	New json.RawMessage `json:"new" swaggertype:"object"`
}

// DiffResponse is a stateless edit script.
type DiffResponse struct {
	Operations int                                          `json:"operations"`
	Summary    reconcile.Summary                            `json:"summary"`
	Debug      map[reconcile.Level]map[diff.OpType][]string `json:"debug"`
	Changes    []string                                     `json:"changes"`
}

// Handler handles HTTP requests for surfaces.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the surface routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/diff", h.HandleDiff)

	group := app.Group("/surfaces")
	group.Get("/", h.HandleList)
	group.Get("/:name", h.HandleGet)
	group.Delete("/:name", h.HandleDelete)
	group.Post("/:name/render", h.HandleRender)
	group.Get("/:name/status", h.HandleStatus)
	group.Get("/:name/rows/:section/:row", h.HandleRow)
	group.Get("/:name/journal", h.HandleJournal)
}

// HandleRender submits a new description of a surface.
// @Summary Render Surface
// @Description Submit the full content of a surface. The request is validated synchronously and applied in the background; a newer render may replace it before it starts.
// @Tags surfaces
// @Accept json,application/x-yaml,application/toml
// @Produce json
// @Param name path string true "Surface name"
// @Param document body document.Document true "Surface content"
// @Success 202 {object} RenderResponse "Render accepted"
// @Failure 400 {object} map[string]string "Invalid document"
// @Failure 422 {object} DuplicateResponse "Duplicate keys"
// @Router /surfaces/{name}/render [post]
func (h *Handler) HandleRender(c *fiber.Ctx) error {
	name := c.Params("name")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("surface", name))

	if !ValidName(name) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidName.Error()})
	}

	doc, err := document.Decode(c.Body(), bodyFormat(c))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	sections, err := doc.ToSections()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	requestID, err := h.service.Render(name, sections)
	if err != nil {
		var keyErr *reconcile.KeyError
		switch {
		case errors.As(err, &keyErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(DuplicateResponse{
				Error:      keyErr.Error(),
				Duplicates: keyErr.Duplicates,
			})
		case errors.Is(err, render.ErrClosed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Render submission failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	l.Debug("Render accepted", zap.String("request_id", requestID), zap.Int("sections", len(sections)))
	return c.Status(fiber.StatusAccepted).JSON(RenderResponse{Status: "accepted", RequestID: requestID})
}

// HandleList lists hosted surfaces.
// @Summary List Surfaces
// @Description List every hosted surface with its scheduler status.
// @Tags surfaces
// @Produce json
// @Success 200 {array} render.Status "Surfaces"
// @Router /surfaces [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.Statuses())
}

// HandleGet returns the applied content of a surface.
// @Summary Get Surface
// @Description Return the content the surface currently shows, as last confirmed by its view.
// @Tags surfaces
// @Produce json
// @Param name path string true "Surface name"
// @Success 200 {object} document.Document "Surface content"
// @Failure 404 {object} map[string]string "Unknown surface"
// @Router /surfaces/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	sf, ok := h.service.Get(c.Params("name"))
	if !ok {
		return notFound(c)
	}

	doc, err := document.FromSections(sf.Scheduler.Snapshot())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to encode surface", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(doc)
}

// HandleStatus returns the scheduler status of a surface.
// @Summary Surface Status
// @Tags surfaces
// @Produce json
// @Param name path string true "Surface name"
// @Success 200 {object} render.Status "Status"
// @Failure 404 {object} map[string]string "Unknown surface"
// @Router /surfaces/{name}/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	sf, ok := h.service.Get(c.Params("name"))
	if !ok {
		return notFound(c)
	}
	return c.JSON(sf.Scheduler.Status())
}

// HandleRow looks a row up by identity.
// @Summary Find Row
// @Description Resolve a row by section key and row key against the applied content.
// @Tags surfaces
// @Produce json
// @Param name path string true "Surface name"
// @Param section path string true "Section key"
// @Param row path string true "Row key"
// @Success 200 {object} RowResponse "Row"
// @Failure 404 {object} map[string]string "Unknown surface or row"
// @Router /surfaces/{name}/rows/{section}/{row} [get]
func (h *Handler) HandleRow(c *fiber.Ctx) error {
	sf, ok := h.service.Get(c.Params("name"))
	if !ok {
		return notFound(c)
	}

	p := reconcile.ItemPath{SectionKey: c.Params("section"), RowKey: c.Params("row")}
	row, idx, ok := sf.Scheduler.Lookup(p)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "row not found"})
	}
	return c.JSON(RowResponse{Section: p.SectionKey, Row: p.RowKey, Index: idx, State: row.State})
}

// HandleJournal lists recent renders of a surface.
// @Summary Surface Journal
// @Description List the latest committed scripts of a surface, newest first.
// @Tags surfaces
// @Produce json
// @Param name path string true "Surface name"
// @Param limit query int false "Maximum entries (default 20, max 200)"
// @Success 200 {array} journal.Entry "Entries"
// @Failure 503 {object} map[string]string "Journal disabled"
// @Router /surfaces/{name}/journal [get]
func (h *Handler) HandleJournal(c *fiber.Ctx) error {
	j := h.service.Journal()
	if j == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "journal disabled"})
	}

	limit := c.QueryInt("limit", 20)
	if limit > maxJournalLimit {
		limit = maxJournalLimit
	}

	entries, err := j.List(c.UserContext(), c.Params("name"), limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Journal query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}

// HandleDelete removes a surface.
// @Summary Remove Surface
// @Description Close the surface scheduler, detach its view and delete its published document.
// @Tags surfaces
// @Param name path string true "Surface name"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Unknown surface"
// @Router /surfaces/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	err := h.service.Remove(c.UserContext(), c.Params("name"))
	switch {
	case errors.Is(err, ErrNotFound):
		return notFound(c)
	case err != nil:
		logger.WithRayID(h.service.logger, c).Error("Surface removal failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDiff compares two documents.
// @Summary Diff Documents
// @Description Compute the edit script turning old into new without touching any surface.
// @Tags diff
// @Accept json
// @Produce json
// @Param request body DiffRequest true "Documents"
// @Success 200 {object} DiffResponse "Edit script"
// @Failure 400 {object} map[string]string "Invalid documents"
// @Failure 422 {object} DuplicateResponse "Duplicate keys"
// @Router /diff [post]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	var req DiffRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	old, err := decodeSections(req.Old)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "old: " + err.Error()})
	}
	next, err := decodeSections(req.New)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "new: " + err.Error()})
	}

	// Reconcile trusts its baseline, so old is checked here
	if err := reconcile.Validate(old); err != nil {
		return diffRejected(c, "old", err)
	}
	script, err := reconcile.Reconcile(old, next)
	if err != nil {
		return diffRejected(c, "new", err)
	}

	changes := script.Changes(next)
	lines := make([]string, len(changes))
	for i, ch := range changes {
		lines[i] = ch.String()
	}

	return c.JSON(DiffResponse{
		Operations: script.Count(),
		Summary:    script.Summary(),
		Debug:      script.DebugInfo(),
		Changes:    lines,
	})
}

func diffRejected(c *fiber.Ctx, side string, err error) error {
	var keyErr *reconcile.KeyError
	if errors.As(err, &keyErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(DuplicateResponse{
			Error:      side + ": " + keyErr.Error(),
			Duplicates: keyErr.Duplicates,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": side + ": " + err.Error()})
}

func decodeSections(raw json.RawMessage) ([]reconcile.Section, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	doc, err := document.Decode(raw, document.FormatJSON)
	if err != nil {
		return nil, err
	}
	return doc.ToSections()
}

func bodyFormat(c *fiber.Ctx) document.Format {
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.Contains(ct, "yaml"):
		return document.FormatYAML
	case strings.Contains(ct, "toml"):
		return document.FormatTOML
	default:
		return document.FormatJSON
	}
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrNotFound.Error()})
}
