package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reflectd/internal/analysis"
	"github.com/fyrsmithlabs/reflectd/internal/memory"
	"github.com/fyrsmithlabs/reflectd/internal/quality"
	"github.com/fyrsmithlabs/reflectd/internal/reflection"
	"github.com/fyrsmithlabs/reflectd/internal/strategy"
)

// ReflectRequest is the body of POST /v1/reflect.
type ReflectRequest struct {
	Mapping reflection.MappingAttempt `json:"mapping"`

	MappingID  string              `json:"mapping_id,omitempty"`
	Strategy   string              `json:"strategy,omitempty"`
	References []quality.Reference `json:"references,omitempty"`
	Schema     quality.Schema      `json:"schema,omitempty"`
}

// AnalyzeMappingsRequest is the body of POST /v1/analyze/mappings.
type AnalyzeMappingsRequest struct {
	Mappings []reflection.MappingAttempt `json:"mappings"`
}

// AnalyzePatternsRequest is the body of POST /v1/analyze/patterns.
type AnalyzePatternsRequest struct {
	Points []analysis.Point `json:"points"`
}

// StatsResponse is the body of GET /v1/stats.
type StatsResponse struct {
	Reflection reflection.Stats          `json:"reflection"`
	Memory     memory.Statistics         `json:"memory"`
	Strategy   map[string]strategy.Stats `json:"strategy"`
}

// handleReflect handles POST /v1/reflect.
func (s *Server) handleReflect(c echo.Context) error {
	var req ReflectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reflected, err := s.service.ReflectOnMapping(c.Request().Context(), req.Mapping, reflection.ReflectOptions{
		MappingID:  req.MappingID,
		Strategy:   req.Strategy,
		References: req.References,
		Schema:     req.Schema,
	})
	if err != nil {
		s.logger.Warn("reflect failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(http.StatusOK, reflected)
}

// handleSuggest handles POST /v1/suggest.
func (s *Server) handleSuggest(c echo.Context) error {
	var point reflection.SuggestPoint
	if err := c.Bind(&point); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return c.JSON(http.StatusOK, s.service.SuggestMapping(c.Request().Context(), point))
}

// handleAnalyzeMappings handles POST /v1/analyze/mappings.
//
// The analysis envelope always comes back with HTTP 200; failures are
// reported inside it.
func (s *Server) handleAnalyzeMappings(c echo.Context) error {
	var req AnalyzeMappingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return c.JSON(http.StatusOK, s.service.AnalyzeMappings(c.Request().Context(), req.Mappings))
}

// handleAnalyzePatterns handles POST /v1/analyze/patterns.
func (s *Server) handleAnalyzePatterns(c echo.Context) error {
	var req AnalyzePatternsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return c.JSON(http.StatusOK, s.service.AnalyzePatterns(c.Request().Context(), req.Points))
}

// handleStats handles GET /v1/stats. An optional device_type query
// parameter restricts the memory statistics.
func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, StatsResponse{
		Reflection: s.service.Stats(),
		Memory:     s.store.Statistics(c.QueryParam("device_type")),
		Strategy:   s.service.StrategyStats(),
	})
}
