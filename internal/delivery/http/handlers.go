package http

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"strconv"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gofiber/fiber/v2"

	"github.com/estimmo/backend/internal/domain"
	"github.com/estimmo/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	estimateSvc *service.EstimateService
}

// NewHandler creates a new handler
func NewHandler(estimateSvc *service.EstimateService) *Handler {
	return &Handler{
		estimateSvc: estimateSvc,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "estimmo-backend",
		"version": "1.0.0",
	})
}

// Estimate runs an estimation from multipart photos plus GPS coordinates
func (h *Handler) Estimate(c *fiber.Ctx) error {
	location, err := parseLocation(c.Query("latitude"), c.Query("longitude"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid latitude/longitude")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Expected multipart form with at least one photo")
	}

	files := form.File["photos"]
	if len(files) == 0 {
		files = form.File["photo"]
	}

	var samples []domain.ImageSample
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded photo")
		}
		img, _, decodeErr := image.Decode(f)
		f.Close()
		if decodeErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unsupported image format (use JPEG or PNG)")
		}
		samples = append(samples, domain.NewImageSample(img))
	}

	result, err := h.estimateSvc.Estimate(c.Context(), location, samples)
	if err != nil {
		return mapEstimateError(err)
	}

	return c.JSON(domain.EstimationResponse{
		Data:    result,
		Success: true,
	})
}

// multiEstimateRequest is the JSON body of the multi-photo endpoint
type multiEstimateRequest struct {
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	ImagesBase64 []string `json:"images_base64"`
}

// EstimateMulti runs an estimation from base64-encoded photos
func (h *Handler) EstimateMulti(c *fiber.Ctx) error {
	var req multiEstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	location := domain.GeoPoint{Latitude: req.Latitude, Longitude: req.Longitude}

	var samples []domain.ImageSample
	for _, encoded := range req.ImagesBase64 {
		raw, err := base64.StdEncoding.DecodeString(stripDataURL(encoded))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid base64 image data")
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unsupported image format (use JPEG or PNG)")
		}
		samples = append(samples, domain.NewImageSample(img))
	}

	result, err := h.estimateSvc.Estimate(c.Context(), location, samples)
	if err != nil {
		return mapEstimateError(err)
	}

	return c.JSON(domain.EstimationResponse{
		Data:    result,
		Success: true,
	})
}

// GetCadastre returns the raw cadastral parcel for a point
func (h *Handler) GetCadastre(c *fiber.Ctx) error {
	location, err := parseLocation(c.Query("latitude"), c.Query("longitude"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid latitude/longitude")
	}

	parcel, err := h.estimateSvc.GetParcel(c.Context(), location)
	if err != nil {
		return mapEstimateError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    parcel,
	})
}

// GetSales returns aggregated comparable sales around a point
func (h *Handler) GetSales(c *fiber.Ctx) error {
	location, err := parseLocation(c.Query("latitude"), c.Query("longitude"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid latitude/longitude")
	}

	radius := float64(c.QueryInt("radius", 500))
	months := c.QueryInt("months", 12)

	stats, err := h.estimateSvc.GetSalesStats(c.Context(), location, radius, months)
	if err != nil {
		return mapEstimateError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// GetHistory returns persisted estimations within a time range
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 168)
	if hours < 1 || hours > 8760 { // max one year
		hours = 168
	}
	limit := c.QueryInt("limit", 50)

	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)

	entries, err := h.estimateSvc.GetHistory(c.Context(), from, to, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch estimation history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}

func parseLocation(latRaw, lonRaw string) (domain.GeoPoint, error) {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	p := domain.GeoPoint{Latitude: lat, Longitude: lon}
	if !p.Valid() {
		return domain.GeoPoint{}, domain.ErrInvalidLocation
	}
	return p, nil
}

// mapEstimateError translates the fatal domain errors onto HTTP codes.
// Everything non-fatal never reaches here; it is absorbed into the
// result's caveats.
func mapEstimateError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidLocation):
		return fiber.NewError(fiber.StatusBadRequest, "Missing or out-of-range location")
	case errors.Is(err, domain.ErrNoImages):
		return fiber.NewError(fiber.StatusBadRequest, "At least one photo is required")
	case errors.Is(err, domain.ErrInsufficientVisionInput):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "No supplied photo is usable for analysis")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute estimation")
	}
}

// stripDataURL removes a data URL prefix if the client sent one.
func stripDataURL(s string) string {
	for i := 0; i < len(s) && i < 64; i++ {
		if s[i] == ',' {
			return s[i+1:]
		}
	}
	return s
}
