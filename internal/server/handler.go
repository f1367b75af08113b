package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/atelier/internal/design"
	imageloader "github.com/jmylchreest/atelier/internal/image"
	"github.com/jmylchreest/atelier/internal/match"
	"github.com/jmylchreest/atelier/internal/service"
	"github.com/jmylchreest/atelier/internal/version"
)

// MatchingService is the engine behind the HTTP API.
type MatchingService interface {
	AnalyzeDesign(ctx context.Context, imageRef string) (*design.Attributes, error)
	ColorAnalysis(ctx context.Context, imageRef string) (*design.ColorAnalysis, error)
	FindMatches(ctx context.Context, req service.MatchRequest) ([]match.Result, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	svc    MatchingService
	logger hclog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(svc MatchingService, logger hclog.Logger) *Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handler{svc: svc, logger: logger}
}

type analyzeRequest struct {
	ImageURL string `json:"imageUrl"`
}

// errorResponse mirrors the body every failing route returns.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "atelier",
		"version": version.Short(),
	})
}

// AnalyzeDesign handles POST /api/ai/analyze-design.
func (h *Handler) AnalyzeDesign(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Image URL is required"})
		return
	}

	attrs, err := h.svc.AnalyzeDesign(c.Request.Context(), req.ImageURL)
	if err != nil {
		h.fail(c, "analyze-design", err)
		return
	}

	c.JSON(http.StatusOK, attrs)
}

// FindMatches handles POST /api/ai/find-matches.
func (h *Handler) FindMatches(c *gin.Context) {
	var req service.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}
	if req.Attributes == nil && strings.TrimSpace(req.ImageRef) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Either imageUrl or designAttributes is required"})
		return
	}

	results, err := h.svc.FindMatches(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "find-matches", err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ColorAnalysis handles GET /api/ai/color-analysis.
func (h *Handler) ColorAnalysis(c *gin.Context) {
	imageURL := c.Query("imageUrl")
	if strings.TrimSpace(imageURL) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Image URL is required"})
		return
	}

	analysis, err := h.svc.ColorAnalysis(c.Request.Context(), imageURL)
	if err != nil {
		h.fail(c, "color-analysis", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) fail(c *gin.Context, route string, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "route", route, "request_id", requestID(c), "error", err)
	} else {
		h.logger.Debug("request rejected", "route", route, "request_id", requestID(c), "error", err)
	}
	c.JSON(status, errorResponse{Message: message, Error: err.Error()})
}

// statusFor maps engine errors to HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, imageloader.ErrInvalidRef):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, imageloader.ErrImageUnavailable):
		return http.StatusUnprocessableEntity, "Image unavailable"
	default:
		return http.StatusInternalServerError, "Server error"
	}
}
