package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/hugorgg/command-ai-nexus/internal/analytics"
	"github.com/hugorgg/command-ai-nexus/internal/report"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/hugorgg/command-ai-nexus/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) buildReport(c echo.Context) (*report.Report, error) {
	id, err := identity(c)
	if err != nil {
		return nil, err
	}
	period, err := analytics.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return nil, errorJSON(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	log := logger.FromEcho(c)

	r, err := report.Build(ctx, h.gw, id.TenantID, period, h.now())
	if err != nil {
		log.Error("Failed to build report", zap.Error(err))
		return nil, errorJSON(c, http.StatusInternalServerError, "failed to build report")
	}
	if snapshot, err := h.stats.Fetch(ctx, id.TenantID); err != nil {
		r.SnapshotError = "could not load dashboard statistics"
	} else {
		r.Snapshot = *snapshot
	}
	return r, nil
}

// Report returns the aggregated report for ?period=7|30|90|365
func (h *Handler) Report(c echo.Context) error {
	r, err := h.buildReport(c)
	if r == nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// ExportReport streams the report as an XLSX workbook
func (h *Handler) ExportReport(c echo.Context) error {
	r, err := h.buildReport(c)
	if r == nil {
		return err
	}

	data, err := report.WriteXLSX(r)
	if err != nil {
		logger.FromEcho(c).Error("Failed to render workbook", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "failed to export report")
	}
	prometheus.RecordReportExport()

	filename := fmt.Sprintf("report-%dd-%s.xlsx", r.Period, r.GeneratedAt.Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Stream(http.StatusOK, report.ContentType, bytes.NewReader(data))
}
