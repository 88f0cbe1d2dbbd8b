package api

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/zeebo/xxh3"

	"emissions/internal/dashboard"
	"emissions/internal/engine"
	"emissions/internal/models"
	"emissions/internal/reference"
	"emissions/internal/render"
)

const (
	maxEnsembleRuns = 1000
	// oldest contact messages are dropped beyond this
	maxStoredMessages = 100
)

type Handler struct {
	data atomic.Pointer[models.Dataset]

	// gen is nil when the dataset was loaded from a file.
	gen             *engine.Generator
	ensembleRuns    int
	ensembleWorkers int

	mu       sync.Mutex
	messages []models.ContactMessage
}

// NewHandler starts with nil data; every data route answers 503 until
// SetData is called.
func NewHandler(gen *engine.Generator, data *models.Dataset) *Handler {
	h := &Handler{gen: gen, ensembleRuns: 100}
	if data != nil {
		h.SetData(data)
	}
	return h
}

// SetEnsemble sets the default run and worker counts of /api/ensemble.
func (h *Handler) SetEnsemble(runs, workers int) {
	h.ensembleRuns, h.ensembleWorkers = runs, workers
}

func (h *Handler) SetData(ds *models.Dataset) { h.data.Store(ds) }

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/series", h.GetSeries)
	api.POST("/series/regenerate", h.Regenerate)
	api.GET("/years", h.GetYears)
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/insights", h.GetInsights)
	api.GET("/sectors", h.GetSectors)
	api.GET("/events", h.GetEvents)
	api.GET("/ensemble", h.GetEnsemble)
	api.GET("/charts/line.png", h.GetLineChart)
	api.GET("/charts/sectors.png", h.GetSectorChart)
	api.GET("/report", h.GetReport)
	api.POST("/contact", h.PostContact)
}

// RegisterAdminRoutes exposes the stored contact messages to callers that
// send "Authorization: Bearer <token>".
func (h *Handler) RegisterAdminRoutes(e *echo.Echo, token string) {
	admin := e.Group("/api/admin", middleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
		return subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1, nil
	}))
	admin.GET("/contact/messages", h.GetMessages)
}

// --- HELPERS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) dataset() (*models.Dataset, error) {
	ds := h.data.Load()
	if ds == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "data is loading")
	}
	return ds, nil
}

// yearParam reads ?year=, defaulting to the last year of ds.
func yearParam(c echo.Context, ds *models.Dataset) (int, error) {
	raw := c.QueryParam("year")
	if raw == "" {
		if len(ds.Years) == 0 {
			return 0, echo.NewHTTPError(http.StatusNotFound, "dataset is empty")
		}
		return ds.Years[len(ds.Years)-1], nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("year %q is not a number", raw))
	}
	if !ds.HasYear(year) {
		return 0, echo.NewHTTPError(http.StatusBadRequest, (&engine.InvalidRangeError{From: year, To: year}).Error())
	}
	return year, nil
}

func modeParam(c echo.Context) (dashboard.Mode, error) {
	mode, err := dashboard.ParseMode(c.QueryParam("mode"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return mode, nil
}

// httpError maps domain errors onto status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, dashboard.ErrUnknownCountry), errors.Is(err, engine.ErrUnknownCountry):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrUnknownYear), errors.Is(err, dashboard.ErrUnknownMode),
		errors.Is(err, engine.ErrInvalidRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

// blob answers with body and an xxh3 ETag, or 304 when the client already
// has it.
func blob(c echo.Context, contentType string, body []byte) error {
	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Response().Header().Set("ETag", etag)
	if match := c.Request().Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, contentType, body)
}

func jsonBlob(c echo.Context, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return blob(c, echo.MIMEApplicationJSON, body)
}

// --- HANDLERS ---

func (h *Handler) GetHealth(c echo.Context) error {
	status := "ready"
	if h.data.Load() == nil {
		status = "loading"
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

// GetSeries returns the dataset, paginated over countries.
func (h *Handler) GetSeries(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	total := len(ds.Series)
	limit, offset := getPaginationParams(c, total)

	if offset >= total {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"data": []models.CountrySeries{}, "years": ds.Years, "total": total, "limit": limit, "offset": offset,
		})
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return jsonBlob(c, map[string]interface{}{
		"data":   ds.Series[offset:end],
		"years":  ds.Years,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Regenerate draws a fresh synthetic dataset.
func (h *Handler) Regenerate(c echo.Context) error {
	if h.gen == nil {
		return echo.NewHTTPError(http.StatusConflict, "dataset was loaded from a file")
	}
	ds := h.gen.Generate()
	h.SetData(ds)
	c.Logger().Infof("dataset regenerated: %d series", len(ds.Series))
	return c.JSON(http.StatusOK, ds)
}

func (h *Handler) GetYears(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds.Years)
}

func (h *Handler) GetDashboard(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	year, err := yearParam(c, ds)
	if err != nil {
		return err
	}
	mode, err := modeParam(c)
	if err != nil {
		return err
	}
	data, err := dashboard.Build(ds, dashboard.View{Year: year, Mode: mode, Country: c.QueryParam("country")})
	if err != nil {
		return httpError(err)
	}
	return jsonBlob(c, data)
}

func (h *Handler) GetInsights(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	year, err := yearParam(c, ds)
	if err != nil {
		return err
	}
	in, err := dashboard.BuildInsights(ds, year)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, in)
}

func (h *Handler) GetSectors(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	year, err := yearParam(c, ds)
	if err != nil {
		return err
	}
	country := c.QueryParam("country")
	if country == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "country is required")
	}
	shares, err := dashboard.Sectors(ds, country, year)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, shares)
}

func (h *Handler) GetEvents(c echo.Context) error {
	return c.JSON(http.StatusOK, reference.Events)
}

// GetEnsemble runs ?runs= realisations (capped) on the request context.
func (h *Handler) GetEnsemble(c echo.Context) error {
	if h.gen == nil {
		return echo.NewHTTPError(http.StatusConflict, "dataset was loaded from a file")
	}
	runs := h.ensembleRuns
	if raw := c.QueryParam("runs"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxEnsembleRuns {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("runs must be in 1..%d", maxEnsembleRuns))
		}
		runs = n
	}
	ens, err := engine.RunEnsemble(c.Request().Context(), h.gen, runs, h.ensembleWorkers, nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ens)
}

func (h *Handler) GetLineChart(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	mode, err := modeParam(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.LineChart(&buf, ds, mode); err != nil {
		return httpError(err)
	}
	return blob(c, "image/png", buf.Bytes())
}

func (h *Handler) GetSectorChart(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	year, err := yearParam(c, ds)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.SectorChart(&buf, ds, year); err != nil {
		return httpError(err)
	}
	return blob(c, "image/png", buf.Bytes())
}

func (h *Handler) GetReport(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	year, err := yearParam(c, ds)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.Report(&buf, ds, year); err != nil {
		return httpError(err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// PostContact logs the message and keeps the latest ones in memory; every
// field is required.
func (h *Handler) PostContact(c echo.Context) error {
	var msg models.ContactMessage
	if err := c.Bind(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Email) == "" ||
		strings.TrimSpace(msg.Subject) == "" || strings.TrimSpace(msg.Message) == "" {
		c.Logger().Warn("contact form validation failed: missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "please fill out all fields in the form")
	}

	h.mu.Lock()
	if len(h.messages) >= maxStoredMessages {
		h.messages = append(h.messages[:0], h.messages[len(h.messages)-maxStoredMessages+1:]...)
	}
	h.messages = append(h.messages, msg)
	h.mu.Unlock()

	c.Logger().Infof("saved message from %s <%s>: %s", msg.Name, msg.Email, msg.Subject)
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) GetMessages(c echo.Context) error {
	h.mu.Lock()
	out := append([]models.ContactMessage{}, h.messages...)
	h.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]interface{}{"messages": out})
}
