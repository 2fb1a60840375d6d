// Package api implements the HTTP handlers serving the sentiment dashboard.
package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"SentiGauge/internal/domain/models"
	domrepo "SentiGauge/internal/domain/repository"
	"SentiGauge/internal/usecase"
	xhttp "SentiGauge/pkg/http"
	xlogger "SentiGauge/pkg/logger"
)

// IndexHandler serves the composite index and its component indicators.
type IndexHandler struct {
	logger *xlogger.Logger
	index  *usecase.IndexUseCase
}

func NewIndexHandler(logger *xlogger.Logger, index *usecase.IndexUseCase) *IndexHandler {
	return &IndexHandler{logger: logger, index: index}
}

func (h *IndexHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/index", h.Index)
	g.GET("/index/all", h.IndexAll)
	g.GET("/indicators", h.Indicators)
	g.GET("/regions", h.Regions)
}

// Index returns the composite score for one region.
func (h *IndexHandler) Index(c echo.Context) error {
	req := &models.IndexRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	region := domrepo.NormalizeRegion(req.Region)

	res, err := h.index.ComputeRegion(c.Request().Context(), region)
	if err != nil {
		return h.computeError(c, region, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// IndexAll returns every configured region. Failed regions are reported in
// the errors map alongside the successful scores.
func (h *IndexHandler) IndexAll(c echo.Context) error {
	res := h.index.ComputeAll(c.Request().Context())
	return xhttp.SuccessResponse(c, res)
}

// Indicators returns the per-component results for one region, optionally
// filtered to a single indicator by name.
func (h *IndexHandler) Indicators(c echo.Context) error {
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	region := domrepo.NormalizeRegion(req.Region)

	components, err := h.index.Indicators(c.Request().Context(), region)
	if err != nil {
		return h.computeError(c, region, err)
	}
	if req.Name != "" {
		filtered := components[:0]
		for _, comp := range components {
			if comp.Name == req.Name {
				filtered = append(filtered, comp)
			}
		}
		components = filtered
	}
	return xhttp.ListResponse(c, components, int64(len(components)))
}

// Regions lists the configured regions with their calibration summaries.
func (h *IndexHandler) Regions(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.index.Regions())
}

func (h *IndexHandler) computeError(c echo.Context, region models.Region, err error) error {
	h.logger.Error("index usecase error",
		xlogger.String("region", string(region)), xlogger.Error(err))
	if errors.Is(err, domrepo.ErrUnknownRegion) {
		return xhttp.NotFoundResponse(c, err.Error())
	}
	if errors.Is(err, domrepo.ErrInsufficientIndicators) {
		return xhttp.AppErrorResponse(c,
			xhttp.ServiceUnavailableError("not enough indicator data to score this region").WithError(err))
	}
	return xhttp.AppErrorResponse(c, err)
}
