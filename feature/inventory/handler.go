package inventory

import (
	"errors"

	"inventory-tracker/core/docstore"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/middleware/auth"
	"inventory-tracker/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the product routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/products")
	group.Get("/", h.HandleList)
	group.Get("/expiring", h.HandleExpiring)
	group.Get("/export.csv", h.HandleExport)
	group.Post("/", h.HandleAdd)
	group.Post("/save", h.HandleSave)
	group.Post("/sweep", h.HandleSweep)
	group.Patch("/:id/status", h.HandleSetStatus)
}

// StatusRequest is the body of a status edit.
type StatusRequest struct {
	Status string `json:"status"`
}

// HandleList returns the inventory table.
// @Summary List Products
// @Description Returns the owner's products ordered by expiry, with expiry badges.
// @Tags products
// @Produce json
// @Param search query string false "Case-insensitive name filter"
// @Param status query string false "all, in use, used or expired"
// @Success 200 {array} Row "Products"
// @Failure 502 {object} map[string]string "Store failure"
// @Router /products [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	rows, err := h.service.View(c.Context(), auth.UserID(c), queryFrom(c))
	if err != nil {
		return h.fail(c, "List products failed", err)
	}
	return c.JSON(rows)
}

// HandleExpiring returns the products expiring within two days.
// @Summary Expiring Products
// @Tags products
// @Produce json
// @Success 200 {array} reconcile.Product "Products"
// @Router /products/expiring [get]
func (h *Handler) HandleExpiring(c *fiber.Ctx) error {
	products, err := h.service.ExpiringSoon(c.Context(), auth.UserID(c))
	if err != nil {
		return h.fail(c, "Expiring products failed", err)
	}
	return c.JSON(products)
}

// HandleExport returns the filtered inventory as CSV.
// @Summary Export Products
// @Tags products
// @Produce text/csv
// @Param search query string false "Case-insensitive name filter"
// @Param status query string false "all, in use, used or expired"
// @Success 200 {string} string "CSV"
// @Router /products/export.csv [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	data, err := h.service.Export(c.Context(), auth.UserID(c), queryFrom(c))
	if err != nil {
		return h.fail(c, "Export failed", err)
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	return c.Send(data)
}

// HandleAdd inserts a hand-typed product.
// @Summary Add Product
// @Tags products
// @Accept json
// @Produce json
// @Param request body reconcile.ManualEntry true "Product"
// @Success 201 {object} reconcile.Product "Created"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /products [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	var entry reconcile.ManualEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	p, err := h.service.AddManual(c.Context(), auth.UserID(c), entry)
	if err != nil {
		return h.fail(c, "Add product failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// HandleSetStatus changes a product status without saving it.
// @Summary Edit Status
// @Description Changes the status in memory; POST /products/save persists pending edits.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product id"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} map[string]int "Pending edits"
// @Failure 404 {object} map[string]string "Unknown product"
// @Router /products/{id}/status [patch]
func (h *Handler) HandleSetStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	owner := auth.UserID(c)
	if err := h.service.SetStatus(c.Context(), owner, c.Params("id"), req.Status); err != nil {
		return h.fail(c, "Status edit failed", err)
	}
	pending, _ := h.service.Pending(c.Context(), owner)
	return c.JSON(fiber.Map{"pending": pending})
}

// HandleSave persists pending status edits as one batch.
// @Summary Save Changes
// @Tags products
// @Produce json
// @Success 200 {object} map[string]int "Saved edits"
// @Failure 502 {object} map[string]string "Batch failed; edits are kept"
// @Router /products/save [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	task, n, err := h.service.SaveChanges(c.Context(), auth.UserID(c))
	if err != nil {
		return h.fail(c, "Save failed", err)
	}
	if err := task.Wait(c.Context()); err != nil {
		return h.fail(c, "Save failed", err)
	}
	return c.JSON(fiber.Map{"saved": n})
}

// HandleSweep runs the expiry sweep for the caller's inventory.
// @Summary Expiry Sweep
// @Tags products
// @Produce json
// @Param dry_run query bool false "Plan only"
// @Success 200 {object} SweepResult "Plan and written count"
// @Router /products/sweep [post]
func (h *Handler) HandleSweep(c *fiber.Ctx) error {
	opts := reconcile.Options{DryRun: c.QueryBool("dry_run", false), Confirmed: true}

	res, err := h.service.Sweep(c.Context(), auth.UserID(c), opts)
	if err != nil {
		return h.fail(c, "Sweep failed", err)
	}
	return c.JSON(res)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func queryFrom(c *fiber.Ctx) reconcile.Query {
	return reconcile.Query{Search: c.Query("search"), Status: c.Query("status")}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrInvalidName),
		errors.Is(err, reconcile.ErrInvalidQuantity),
		errors.Is(err, reconcile.ErrInvalidExpiry),
		errors.Is(err, reconcile.ErrInvalidPayload),
		errors.Is(err, ErrInvalidStatus):
		return fiber.StatusBadRequest
	case errors.Is(err, reconcile.ErrMissingOwner):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrProductNotFound), errors.Is(err, docstore.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, docstore.ErrDuplicate):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadGateway
	}
}
