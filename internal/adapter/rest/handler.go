package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/simaogato/portfolio-backend/internal/adapter/auth"
	"github.com/simaogato/portfolio-backend/internal/adapter/dto"
	"github.com/simaogato/portfolio-backend/internal/domain"
	"github.com/simaogato/portfolio-backend/internal/usecase/calculator"
	"github.com/simaogato/portfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/portfolio-backend/pkg/logger"
)

const maxBodyBytes = 1 << 20

// PortfolioHandler serves the asset and portfolio endpoints
type PortfolioHandler struct {
	service *portfolio.PortfolioService
	logger  *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(service *portfolio.PortfolioService, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
		logger:  log,
	}
}

// ListAssets returns the caller's assets, optionally only the lots of one symbol
// GET /api/portfolio/assets[?symbol=]
func (h *PortfolioHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var assets []*domain.Asset
	var err error
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		assets, err = h.service.ListAssetsBySymbol(r.Context(), ownerID, symbol)
	} else {
		assets, err = h.service.ListAssets(r.Context(), ownerID)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAssetListResponse(assets))
}

// CreateAsset registers a new asset for the caller
// POST /api/portfolio/assets
func (h *PortfolioHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	req, err := dto.DecodeAssetRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	fields, err := req.Fields()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	asset, err := h.service.CreateAsset(r.Context(), ownerID, fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"owner_id": ownerID.String(),
		"asset_id": asset.ID.String(),
		"symbol":   asset.Symbol,
	}).Info("Asset created")

	respondJSON(w, http.StatusCreated, dto.NewAssetResponse(asset))
}

// GetAsset returns one of the caller's assets
// GET /api/portfolio/assets/{id}
func (h *PortfolioHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	ownerID, assetID, ok := h.ownerAndAsset(w, r)
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(r.Context(), ownerID, assetID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAssetResponse(asset))
}

// ReplaceAsset overwrites every field of an asset
// PUT /api/portfolio/assets/{id}
func (h *PortfolioHandler) ReplaceAsset(w http.ResponseWriter, r *http.Request) {
	h.updateAsset(w, r, true)
}

// PatchAsset updates the supplied fields of an asset
// PATCH /api/portfolio/assets/{id}
func (h *PortfolioHandler) PatchAsset(w http.ResponseWriter, r *http.Request) {
	h.updateAsset(w, r, false)
}

func (h *PortfolioHandler) updateAsset(w http.ResponseWriter, r *http.Request, full bool) {
	ownerID, assetID, ok := h.ownerAndAsset(w, r)
	if !ok {
		return
	}

	req, err := dto.DecodeAssetRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var patch domain.AssetPatch
	if full {
		fields, err := req.Fields()
		if err != nil {
			h.fail(w, r, err)
			return
		}
		patch = dto.AsPatch(fields)
	} else {
		if patch, err = req.Patch(); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	asset, err := h.service.UpdateAsset(r.Context(), ownerID, assetID, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAssetResponse(asset))
}

// DeleteAsset removes one of the caller's assets
// DELETE /api/portfolio/assets/{id}
func (h *PortfolioHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	ownerID, assetID, ok := h.ownerAndAsset(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteAsset(r.Context(), ownerID, assetID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		h.fail(w, r, domain.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSummary returns the caller's portfolio valuation
// GET /api/portfolio/summary and /api/portfolio/assets/summary
func (h *PortfolioHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetPortfolioSummary(r.Context(), ownerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSummaryResponse(summary))
}

// GetPerformance ranks the caller's assets
// GET /api/portfolio/performance[?metric=roi|gain|annualized] and /api/portfolio/assets/performance
func (h *PortfolioHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	service := h.service
	if metric := r.URL.Query().Get("metric"); metric != "" {
		calc, err := calculator.ByName(metric, h.service.Now)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		service = h.service.WithCalculator(calc)
	}

	performance, err := service.GetPortfolioPerformance(r.Context(), ownerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPerformanceResponse(service.Calculator.Name(), performance))
}

// GetAllocation returns the caller's value split by asset type
// GET /api/portfolio/allocation
func (h *PortfolioHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	allocation, err := h.service.GetAllocation(r.Context(), ownerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAllocationResponse(allocation))
}

// ListAssetTypes returns the registered asset types
// GET /api/portfolio/asset-types
func (h *PortfolioHandler) ListAssetTypes(w http.ResponseWriter, r *http.Request) {
	registry := h.service.Registry
	types := make([]dto.AssetTypeResponse, 0)
	for _, tag := range registry.Types() {
		types = append(types, dto.AssetTypeResponse{AssetType: string(tag), Label: registry.Label(tag)})
	}

	respondJSON(w, http.StatusOK, types)
}

func (h *PortfolioHandler) owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		h.fail(w, r, auth.ErrMissingToken)
		return uuid.Nil, false
	}
	return ownerID, true
}

// ownerAndAsset resolves the caller and the {id} path variable.
// A malformed id is reported like a missing asset.
func (h *PortfolioHandler) ownerAndAsset(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	assetID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, domain.ErrNotFound)
		return uuid.Nil, uuid.Nil, false
	}

	return ownerID, assetID, true
}

func (h *PortfolioHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
	}
	respondError(w, status, message)
}
