package scan

import (
	"context"
	"errors"

	"inventory-tracker/core/logger"
	"inventory-tracker/core/middleware/auth"
	"inventory-tracker/core/reconcile"
	"inventory-tracker/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for scans.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the scan routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/scan")
	group.Post("/", h.HandleScan)
	group.Post("/image", h.HandleScanImage)
	group.Post("/decode", h.HandleDecode)
}

// ScanRequest is the body of a scan whose QR text was decoded by the client.
type ScanRequest struct {
	Payload  string `json:"payload"`
	Quantity int    `json:"quantity"`
}

// ScanResponse describes the write a scan produced.
type ScanResponse struct {
	Op      reconcile.Operation `json:"op"`
	Product reconcile.Product   `json:"product"`
	Anomaly bool                `json:"anomaly"`
	Payload string              `json:"payload,omitempty"`
}

// HandleScan merges a decoded QR payload into the inventory.
// @Summary Merge Scan
// @Description Adds the scanned quantity to the product with the same qrId, or creates it.
// @Tags scan
// @Accept json
// @Produce json
// @Param request body ScanRequest true "Scan"
// @Success 200 {object} ScanResponse "Applied write"
// @Failure 400 {object} map[string]string "Invalid payload or quantity"
// @Failure 502 {object} map[string]string "Store failure"
// @Router /scan [post]
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	d, err := h.service.Merge(c.Context(), auth.UserID(c), req.Payload, req.Quantity)
	if err != nil {
		l.Warn("Scan rejected", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(ScanResponse{Op: d.Op, Product: d.Product, Anomaly: d.Anomaly})
}

// HandleScanImage decodes an uploaded QR image and merges its payload.
// @Summary Scan Image
// @Description Decodes the QR code in the uploaded image and merges it into the inventory.
// @Tags scan
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PNG, JPEG or GIF image"
// @Param quantity formData int false "Quantity to add (default 1)"
// @Success 200 {object} ScanResponse "Applied write"
// @Failure 400 {object} map[string]string "Invalid image, payload or quantity"
// @Failure 409 {object} map[string]string "Decoder busy"
// @Failure 422 {object} map[string]string "No QR code found"
// @Router /scan/image [post]
func (h *Handler) HandleScanImage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	quantity := 1
	if raw := c.FormValue("quantity"); raw != "" {
		q, ok := utils.ToInt(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": reconcile.ErrInvalidQuantity.Error()})
		}
		quantity = q
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read upload"})
	}
	defer f.Close()

	text, d, err := h.service.ScanUpload(c.Context(), auth.UserID(c), f, quantity)
	if err != nil {
		l.Warn("Image scan failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(ScanResponse{Op: d.Op, Product: d.Product, Anomaly: d.Anomaly, Payload: text})
}

// HandleDecode decodes an uploaded QR image without touching the inventory.
// @Summary Decode Image
// @Tags scan
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PNG, JPEG or GIF image"
// @Success 200 {object} map[string]string "Decoded text"
// @Failure 422 {object} map[string]string "No QR code found"
// @Router /scan/decode [post]
func (h *Handler) HandleDecode(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read upload"})
	}
	defer f.Close()

	text, err := h.service.DecodeUpload(c.Context(), auth.UserID(c), f)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"text": text})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFrame),
		errors.Is(err, reconcile.ErrInvalidPayload),
		errors.Is(err, reconcile.ErrInvalidQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, reconcile.ErrMissingOwner):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrFrameTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, ErrBusy):
		return fiber.StatusConflict
	case errors.Is(err, ErrNotFound):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusBadGateway
	}
}
