package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"consumption-heatmap/internal/data"
	"consumption-heatmap/internal/heatmap"
	"consumption-heatmap/internal/logging"
	"consumption-heatmap/internal/pivot"
	"consumption-heatmap/internal/render"
)

// Demo:
// - Build a synthetic meter export workbook (one month of quarter hours)
// - Run it through the heatmap pipeline
// - Write the workbook and the rendered heatmap so both can be inspected
func main() {
	start := flag.String("start", "2024-03-01", "First day of the export (YYYY-MM-DD)")
	days := flag.Int("days", 31, "Number of days to generate")
	outXLSX := flag.String("workbook", "results/sample_export.xlsx", "Path to write the synthetic workbook")
	out := flag.String("out", "results/heatmap.html", "Path to write the heatmap (extension picks the format)")
	flag.Parse()

	if err := run(*start, *days, *outXLSX, *out); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(start string, days int, outXLSX, out string) error {
	day, err := time.Parse("2006-01-02", start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}

	var buf bytes.Buffer
	if err := data.WriteSampleExport(&buf, data.SampleOptions{
		Start:          day,
		Days:           days,
		DuplicateEvery: 500,
		BlankEvery:     333,
	}); err != nil {
		return err
	}
	if err := writeFile(outXLSX, buf.Bytes()); err != nil {
		return err
	}

	format, err := render.ParseFormat(filepath.Ext(out))
	if err != nil {
		return err
	}
	svc := heatmap.New(heatmap.Settings{
		Transform:    pivot.DefaultOptions(),
		DefaultTitle: "Heatmapa spotřeby elektřiny",
		PlotlyURL:    "https://cdn.plot.ly/plotly-2.35.2.min.js",
	}, logging.L)

	res, err := svc.Build(context.Background(), buf.Bytes(), pivot.Request{
		Sheet:             data.SampleSheet,
		TimestampColumn:   data.SampleTimestampColumn,
		ConsumptionColumn: data.SampleConsumptionColumn,
	})
	if err != nil {
		return err
	}
	doc, err := svc.Render(context.Background(), res, format, filepath.Base(out))
	if err != nil {
		return err
	}
	path := filepath.Join(filepath.Dir(out), doc.FileName)
	if err := writeFile(path, doc.Data); err != nil {
		return err
	}

	s := res.Summary
	fmt.Printf("Wrote %s and %s\n", outXLSX, path)
	fmt.Printf("%d times x %d dates, %d populated, %d missing\n", s.Times, s.Dates, s.Populated, s.Missing)
	fmt.Printf("min=%.3f kW mean=%.3f kW max=%.3f kW (peak %s %s)\n", s.MinKW, s.MeanKW, s.MaxKW, s.PeakDate, s.PeakTime)
	return nil
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
