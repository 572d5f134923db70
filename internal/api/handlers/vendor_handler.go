package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-mailarchive/internal/api/response"
	"github.com/welldanyogia/webrana-mailarchive/internal/ingest"
	"github.com/welldanyogia/webrana-mailarchive/internal/mailparse"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
	"github.com/welldanyogia/webrana-mailarchive/internal/validator"
)

// VendorHandler handles vendor listing and mail store sync
type VendorHandler struct {
	vendorRepo repository.VendorRepository
	ingest     ingest.Service
	sources    map[string]ingest.MailSource
}

// NewVendorHandler creates a new VendorHandler. Sources are keyed by their
// canonical vendor name.
func NewVendorHandler(vendorRepo repository.VendorRepository, ingestSvc ingest.Service, sources ...ingest.MailSource) *VendorHandler {
	h := &VendorHandler{
		vendorRepo: vendorRepo,
		ingest:     ingestSvc,
		sources:    make(map[string]ingest.MailSource, len(sources)),
	}
	for _, src := range sources {
		h.sources[models.CanonicalVendorName(src.Vendor())] = src
	}
	return h
}

// List handles GET /api/vendors
func (h *VendorHandler) List(c echo.Context) error {
	vendors, err := h.vendorRepo.List(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to list vendors")
	}
	return response.Success(c, vendors)
}

// Sync handles POST /api/vendors/:vendor/sync?count=&since=
func (h *VendorHandler) Sync(c echo.Context) error {
	raw, err := validator.VendorName(c.Param("vendor"))
	if err != nil {
		return response.BadRequest(c, "vendor: "+err.Error())
	}
	name := models.CanonicalVendorName(raw)
	source, ok := h.sources[name]
	if !ok {
		return response.BadRequest(c, "unsupported vendor: "+name)
	}

	count := mailparse.All
	if v := c.QueryParam("count"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return response.BadRequest(c, "count must be an integer")
		}
		count = parsed
	}
	if err := mailparse.ValidateCount(count); err != nil {
		return response.BadRequest(c, err.Error())
	}

	var cursor *time.Time
	if v := strings.TrimSpace(c.QueryParam("since")); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return response.BadRequest(c, "since must be an RFC 3339 timestamp")
		}
		cursor = &since
	}

	result, err := h.ingest.Sync(c.Request().Context(), source, count, cursor)
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessWithMessage(c, result, "synced vendor "+result.Vendor)
}
