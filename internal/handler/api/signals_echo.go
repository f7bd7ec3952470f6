package api

import (
	"net/http"

	models "TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/usecase"
	xhttp "TradePulse/pkg/http"
	xlogger "TradePulse/pkg/logger"
	xutil "TradePulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// SignalsEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type SignalsEchoHandler struct {
	logger   *xlogger.Logger
	signals  *usecase.SignalsUseCase
	batch    *usecase.BatchScanUseCase
	backtest *usecase.BacktestUseCase
	candles  *usecase.CandlesUseCase
}

func NewSignalsEchoHandler(
	logger *xlogger.Logger,
	signals *usecase.SignalsUseCase,
	batch *usecase.BatchScanUseCase,
	backtest *usecase.BacktestUseCase,
	candles *usecase.CandlesUseCase,
) *SignalsEchoHandler {
	return &SignalsEchoHandler{
		logger:   logger,
		signals:  signals,
		batch:    batch,
		backtest: backtest,
		candles:  candles,
	}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals/scan", h.Scan)
	g.POST("/signals/scan/batch", h.ScanBatch)
	g.GET("/signals/waves", h.Waves)
	g.GET("/signals/elliott-score", h.ElliottScore)
	g.POST("/backtest/run", h.RunBacktest)
	g.GET("/backtest/jobs/:id", h.BacktestJob)
	g.GET("/candles", h.Candles)
}

func (h *SignalsEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)

	res, err := h.signals.Scan(c.Request().Context(), req.Symbol, period)
	if err != nil {
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) ScanBatch(c echo.Context) error {
	req := &models.BatchScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)

	res, err := h.batch.Scan(c.Request().Context(), req.Symbols, period)
	if err != nil {
		h.logger.Error("batch scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Waves(c echo.Context) error {
	req := &models.WavesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)

	res, err := h.signals.Waves(c.Request().Context(), req.Symbol, period)
	if err != nil {
		h.logger.Error("waves usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) ElliottScore(c echo.Context) error {
	req := &models.WavesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)

	score, err := h.signals.ElliottScore(c.Request().Context(), req.Symbol, period)
	if err != nil {
		h.logger.Error("elliott score usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":        req.Symbol,
		"elliott_score": score,
	})
}

func (h *SignalsEchoHandler) RunBacktest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Async {
		job, err := h.backtest.RunAsync(c.Request().Context(), *req)
		if err != nil {
			h.logger.Error("backtest enqueue error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.DataResponse(c, http.StatusAccepted, job)
	}

	res, err := h.backtest.Run(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) BacktestJob(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return xhttp.BadRequestResponse(c, "job id required")
	}
	job, err := h.backtest.Job(id)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, job)
}

func (h *SignalsEchoHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	params := usecase.GetCandlesParams{Symbol: req.Symbol, Limit: req.Limit}
	if req.From != "" {
		params.From, _ = xutil.ParseDate(req.From)
	}
	if req.To != "" {
		params.To, _ = xutil.ParseDate(req.To)
	}

	res, err := h.candles.GetCandles(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
