package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	payoutapp "github.com/payout/backend/internal/application/payout"
	"github.com/payout/backend/internal/domain/payout"
	"github.com/payout/backend/internal/interfaces/http/dto"
	"github.com/payout/backend/internal/interfaces/http/middleware"
)

// ReportService generates the per-brand payout archive from uploaded workbooks
type ReportService interface {
	GenerateArchive(ctx context.Context, salesFile, inventoryFile io.Reader, settings payout.Settings) (*payoutapp.ArchiveResult, error)
}

// ReportHandler handles payout report generation endpoints
type ReportHandler struct {
	BaseHandler
	service       ReportService
	maxUploadSize int64
	timeout       time.Duration
	validate      *validator.Validate
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service ReportService, maxUploadSize int64, timeout time.Duration) *ReportHandler {
	return &ReportHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		timeout:       timeout,
		validate:      validator.New(),
	}
}

// BrandDealRequest describes the deduction terms for one brand
type BrandDealRequest struct {
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
	Rent       float64 `json:"rent" validate:"gte=0"`
}

// GeneratePayout accepts sales and inventory workbooks plus per-brand deal
// terms and responds with a ZIP archive of brand reports.
//
// Expected multipart form fields:
//   - sales_file:      xlsx export of sales rows (required)
//   - inventory_file:  xlsx export of inventory rows (required)
//   - payout_cycle:    label stamped into every report (required)
//   - brand_settings:  JSON object mapping brand name to deal terms (optional)
func (h *ReportHandler) GeneratePayout(c *gin.Context) {
	var details []dto.ValidationDetail

	payoutCycle := strings.TrimSpace(c.PostForm("payout_cycle"))
	if payoutCycle == "" {
		details = append(details, dto.ValidationDetail{Field: "payout_cycle", Message: "This field is required"})
	}

	deals, dealDetails, err := h.parseBrandSettings(c.PostForm("brand_settings"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "brand_settings must be a JSON object mapping brand names to deal terms")
		return
	}
	details = append(details, dealDetails...)

	salesFile, salesDetails := h.openWorkbook(c, "sales_file")
	if salesFile != nil {
		defer salesFile.Close()
	}
	details = append(details, salesDetails...)

	inventoryFile, inventoryDetails := h.openWorkbook(c, "inventory_file")
	if inventoryFile != nil {
		defer inventoryFile.Close()
	}
	details = append(details, inventoryDetails...)

	if len(details) > 0 {
		h.ValidationError(c, details)
		return
	}

	settings := payout.Settings{
		PayoutCycle: payoutCycle,
		Deals:       deals,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.service.GenerateArchive(ctx, salesFile, inventoryFile, settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Header("X-Brand-Count", strconv.Itoa(result.BrandCount))
	c.Header("X-Refund-Count", strconv.Itoa(result.RefundCount))
	c.Header("X-Removed-Count", strconv.Itoa(result.RemovedCount))
	c.Data(http.StatusOK, "application/zip", result.Archive)
}

// parseBrandSettings decodes the optional brand_settings form field. Deal
// terms are validated per brand so one bad entry names the brand at fault.
func (h *ReportHandler) parseBrandSettings(raw string) (map[string]payout.BrandDeal, []dto.ValidationDetail, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil, nil
	}

	var requests map[string]BrandDealRequest
	if err := json.Unmarshal([]byte(raw), &requests); err != nil {
		return nil, nil, err
	}

	var details []dto.ValidationDetail
	deals := make(map[string]payout.BrandDeal, len(requests))
	for brand, req := range requests {
		if err := h.validate.Struct(req); err != nil {
			dealDetails := middleware.ValidationDetails(err)
			if len(dealDetails) == 0 {
				dealDetails = []dto.ValidationDetail{{Message: "Invalid value"}}
			}
			for _, d := range dealDetails {
				details = append(details, dto.ValidationDetail{
					Field:   "brand_settings." + brand,
					Message: d.Message,
				})
			}
			continue
		}
		deals[payout.CanonicalBrand(brand)] = payout.BrandDeal{
			Percentage: decimal.NewFromFloat(req.Percentage),
			Rent:       decimal.NewFromFloat(req.Rent),
		}
	}

	return deals, details, nil
}

// openWorkbook fetches an uploaded xlsx file from the multipart form
func (h *ReportHandler) openWorkbook(c *gin.Context, field string) (multipart.File, []dto.ValidationDetail) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, []dto.ValidationDetail{{Field: field, Message: "This field is required"}}
	}

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		file.Close()
		return nil, []dto.ValidationDetail{{Field: field, Message: "must be an .xlsx file"}}
	}

	if header.Size > h.maxUploadSize {
		file.Close()
		return nil, []dto.ValidationDetail{{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum size of %dMB", h.maxUploadSize>>20),
		}}
	}

	return file, nil
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.POST("/payout", h.GeneratePayout)
	}
}
