// Package server serves the BeakerX settings endpoint backed by the settings store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/wizzomafizzo/beakersync/internal/constants"
	"github.com/wizzomafizzo/beakersync/internal/settings"
	"github.com/wizzomafizzo/beakersync/internal/store"
)

// Store is the persistence the server needs.
type Store interface {
	Get(ctx context.Context, name string) (*settings.Record, bool, error)
	Put(ctx context.Context, name string, record *settings.Record) error
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Options configures the server.
type Options struct {
	Logger   zerolog.Logger
	Registry *prometheus.Registry
	Token    string
}

// New builds the echo instance serving the settings endpoint, /healthz and /metrics.
func New(st Store, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := opts.Logger
	metrics := newMetrics(opts.Registry)

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		message := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			}
		}
		if c.Response().Committed {
			return
		}
		_ = c.JSON(code, ErrorResponse{Error: message})
	}

	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("request_id", req.Header.Get(constants.RequestIDHeader)).
				Int("status", c.Response().Status).
				Msg("HTTP request")
			return nil
		}
	})

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.gatherer, promhttp.HandlerOpts{})))

	h := &handlers{store: st, logger: logger, metrics: metrics}
	settingsGroup := e.Group(constants.SettingsPath, tokenAuth(opts.Token))
	settingsGroup.GET("", h.getSettings)
	settingsGroup.POST("", h.saveSettings)

	return e
}

// tokenAuth checks Jupyter-style "Authorization: token <t>" headers when a token is configured.
func tokenAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}
			scheme, value, _ := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			if !strings.EqualFold(scheme, constants.TokenScheme) || value != token {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
			}
			return next(c)
		}
	}
}

type handlers struct {
	store   Store
	metrics *metrics
	logger  zerolog.Logger
}

func (h *handlers) getSettings(c echo.Context) error {
	record, found, err := h.store.Get(c.Request().Context(), store.DefaultName)
	if err != nil {
		h.metrics.requests.WithLabelValues("load", "error").Inc()
		h.logger.Error().Err(err).Msg("failed to read settings")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read settings")
	}
	if !found {
		record = settings.DefaultConfig()
	}

	h.metrics.requests.WithLabelValues("load", "ok").Inc()
	return c.JSON(http.StatusOK, record)
}

func (h *handlers) saveSettings(c echo.Context) error {
	var payload settings.Envelope
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		h.metrics.requests.WithLabelValues("save", "invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse JSON: "+err.Error())
	}
	if payload.BeakerX == nil {
		h.metrics.requests.WithLabelValues("save", "invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "missing beakerx settings")
	}

	if err := h.store.Put(c.Request().Context(), store.DefaultName, payload.BeakerX); err != nil {
		h.metrics.requests.WithLabelValues("save", "error").Inc()
		h.logger.Error().Err(err).Msg("failed to store settings")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store settings")
	}

	if payload.BeakerX.JVMOptions != nil {
		h.logger.Info().
			Str("flags", settings.BuildFlagsPreview(*payload.BeakerX.JVMOptions)).
			Int("version", payload.BeakerX.Version).
			Msg("settings saved")
	}

	h.metrics.requests.WithLabelValues("save", "ok").Inc()
	return c.NoContent(http.StatusNoContent)
}
