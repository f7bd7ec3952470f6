package api

import (
	"encoding/json"
	"net/http"
	"time"

	domrepo "TradePulse/internal/domain/repository"
	icache "TradePulse/internal/service/cache"
	"TradePulse/internal/service/metrics"
	"TradePulse/internal/service/ratelimit"
	"TradePulse/internal/usecase"
	applogger "TradePulse/pkg/logger"
)

type SignalsHandler struct {
	signals *usecase.SignalsUseCase
	cache   icache.BytesCache
	rl      *ratelimit.Limiter
	l       *applogger.Logger

	scanTTL time.Duration
	waveTTL time.Duration
}

func NewSignalsHandler(signals *usecase.SignalsUseCase) *SignalsHandler {
	metrics.Register()
	return &SignalsHandler{
		signals: signals,
		rl:      ratelimit.New(),
		scanTTL: 60 * time.Second,
		waveTTL: 60 * time.Second,
	}
}

func (h *SignalsHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetCacheTTL overrides the per-endpoint response cache lifetimes.
func (h *SignalsHandler) SetCacheTTL(scan, wave time.Duration) {
	if scan > 0 {
		h.scanTTL = scan
	}
	if wave > 0 {
		h.waveTTL = wave
	}
}

// SetLogger injects a structured logger.
func (h *SignalsHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *SignalsHandler) Scan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "scan"
		defer func() { metrics.SignalsLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			if h.l != nil {
				h.l.Warn("signals.scan missing symbol")
			}
			http.Error(w, "symbol required", http.StatusBadRequest)
			return
		}
		period := domrepo.NormalizePeriod(r.URL.Query().Get("period"))
		if !h.rl.Allow(r.RemoteAddr+":scan", 5, 2) {
			if h.l != nil {
				h.l.Warn("signals.scan rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		cacheKey := "scan:" + symbol + ":" + string(period)
		if h.serveCached(w, endpoint, cacheKey) {
			return
		}
		res, err := h.signals.Scan(r.Context(), symbol, period)
		if err != nil {
			metrics.SignalsErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("signals.scan error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, endpoint, cacheKey, h.scanTTL, res)
	}
}

func (h *SignalsHandler) Waves() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "waves"
		defer func() { metrics.SignalsLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			if h.l != nil {
				h.l.Warn("signals.waves missing symbol")
			}
			http.Error(w, "symbol required", http.StatusBadRequest)
			return
		}
		period := domrepo.NormalizePeriod(r.URL.Query().Get("period"))
		if !h.rl.Allow(r.RemoteAddr+":waves", 5, 2) {
			if h.l != nil {
				h.l.Warn("signals.waves rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		cacheKey := "waves:" + symbol + ":" + string(period)
		if h.serveCached(w, endpoint, cacheKey) {
			return
		}
		res, err := h.signals.Waves(r.Context(), symbol, period)
		if err != nil {
			metrics.SignalsErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("signals.waves error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, endpoint, cacheKey, h.waveTTL, res)
	}
}

// serveCached writes a cached response if present. Returns true when served.
func (h *SignalsHandler) serveCached(w http.ResponseWriter, endpoint, key string) bool {
	if h.cache == nil {
		return false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		if h.l != nil {
			h.l.Warn("signals."+endpoint+" cache_get_error", applogger.Error(err))
		}
		return false
	}
	if !ok {
		if h.l != nil {
			h.l.Debug("signals."+endpoint+" cache_miss", applogger.String("key", key))
		}
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	if h.l != nil {
		h.l.Debug("signals."+endpoint+" cache_hit", applogger.String("key", key))
	}
	if _, err := w.Write(b); err != nil && h.l != nil {
		h.l.Warn("signals."+endpoint+" write_error", applogger.Error(err))
	}
	return true
}

func (h *SignalsHandler) writeJSON(w http.ResponseWriter, endpoint, key string, ttl time.Duration, res interface{}) {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(res)
	if err != nil {
		if h.l != nil {
			h.l.Error("signals."+endpoint+" marshal_error", applogger.Error(err))
		}
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(key, b, ttl); err != nil && h.l != nil {
			h.l.Warn("signals."+endpoint+" cache_set_error", applogger.Error(err))
		}
	}
	if _, err := w.Write(b); err != nil && h.l != nil {
		h.l.Warn("signals."+endpoint+" write_error", applogger.Error(err))
	}
}
