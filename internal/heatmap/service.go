// Package heatmap runs the workbook to heatmap pipeline shared by the HTTP
// handlers and the CLI.
package heatmap

import (
	"context"
	"strings"
	"time"

	"consumption-heatmap/internal/analysis"
	"consumption-heatmap/internal/data"
	"consumption-heatmap/internal/logging"
	"consumption-heatmap/internal/model"
	"consumption-heatmap/internal/observability/metrics"
	"consumption-heatmap/internal/pivot"
	"consumption-heatmap/internal/render"
)

// Settings are the deployment defaults of a Service.
type Settings struct {
	Transform       pivot.Options
	Duplicates      pivot.DuplicatePolicy
	DefaultTitle    string
	DefaultFileName string
	PlotlyURL       string
	TempDir         string
}

// Service builds heatmaps from uploaded workbooks. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	settings Settings
	log      logging.Logger
}

func New(s Settings, log logging.Logger) *Service {
	if log == nil {
		log = logging.L
	}
	if s.DefaultFileName == "" {
		s.DefaultFileName = render.DefaultFileName
	}
	if s.Duplicates == "" {
		s.Duplicates = pivot.KeepFirst
	}
	return &Service{settings: s, log: log}
}

// Result is a successful transform.
type Result struct {
	Title   string
	Matrix  *model.ConsumptionMatrix
	Figure  *render.Figure
	Summary analysis.Summary
}

// Columns lists the column names of sheet after the preamble is removed.
func (s *Service) Columns(ctx context.Context, raw []byte, sheet string) ([]string, error) {
	t, err := data.LoadTable(ctx, raw, sheet)
	if err != nil {
		return nil, err
	}
	return pivot.Columns(t, s.settings.Transform.PreambleRows)
}

// Build runs the transform for req over the workbook bytes.
func (s *Service) Build(ctx context.Context, raw []byte, req pivot.Request) (*Result, error) {
	start := time.Now()
	res, err := s.build(ctx, raw, req)
	result := metrics.ResultSuccess
	if err != nil {
		result = string(pivot.AsFailure(err).Kind)
	}
	metrics.ObserveTransform(result, time.Since(start))

	log := s.log.WithContext(ctx).WithFields(logging.Fields{
		"sheet":       req.Sheet,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		log.WithError(err).Warn("heatmap transform failed")
		return nil, err
	}
	log.WithFields(logging.Fields{
		"times": res.Summary.Times,
		"dates": res.Summary.Dates,
	}).Info("heatmap built")
	return res, nil
}

func (s *Service) build(ctx context.Context, raw []byte, req pivot.Request) (*Result, error) {
	if req.Duplicates == "" {
		req.Duplicates = s.settings.Duplicates
	}
	t, err := data.LoadTable(ctx, raw, req.Sheet)
	if err != nil {
		return nil, err
	}
	m, err := pivot.Transform(t, req, s.settings.Transform)
	if err != nil {
		return nil, err
	}
	title := s.Title(req.Title)
	return &Result{
		Title:   title,
		Matrix:  m,
		Figure:  render.NewFigure(m, title),
		Summary: analysis.Summarize(m),
	}, nil
}

// Title falls back to the configured default for a blank title.
func (s *Service) Title(title string) string {
	if strings.TrimSpace(title) == "" {
		return s.settings.DefaultTitle
	}
	return title
}

// Export builds the heatmap and renders it as a downloadable document.
func (s *Service) Export(ctx context.Context, raw []byte, req pivot.Request, format render.Format, fileName string) (*render.Exported, error) {
	res, err := s.Build(ctx, raw, req)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, res, format, fileName)
}

// Render writes an already built result in format.
func (s *Service) Render(ctx context.Context, res *Result, format render.Format, fileName string) (*render.Exported, error) {
	if strings.TrimSpace(fileName) == "" {
		fileName = s.settings.DefaultFileName
	}
	start := time.Now()
	out, err := render.Export(render.Document{
		Format:    format,
		Title:     res.Title,
		Matrix:    res.Matrix,
		PlotlyURL: s.settings.PlotlyURL,
	}, s.settings.TempDir, fileName)

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveExport(string(format), result, time.Since(start))
	if err != nil {
		s.log.WithContext(ctx).WithError(err).WithField("format", format).Error("heatmap export failed")
		return nil, err
	}
	s.log.WithContext(ctx).WithFields(logging.Fields{
		"format":    format,
		"file_name": out.FileName,
		"bytes":     len(out.Data),
	}).Info("heatmap exported")
	return out, nil
}
