package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"consumption-heatmap/internal/pivot"
	"consumption-heatmap/internal/render"
)

// SuccessMessage mirrors the notice of the web UI.
const SuccessMessage = "Heatmapa byla úspěšně vygenerována!"

type renderOptions struct {
	file              string
	sheet             string
	timestampColumn   string
	consumptionColumn string
	title             string
	out               string
	format            string
	keepLast          bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a heatmap document from a workbook sheet",
		Example: `  heatmap render --file spotreba.xlsx --sheet List1 \
    --timestamp-column "Počátek intervalu" \
    --consumption-column "Celkem Činná - spotřeba[kW]" --out brezen.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.file, "file", "", "workbook (.xlsx)")
	f.StringVar(&o.sheet, "sheet", "", "sheet name")
	f.StringVar(&o.timestampColumn, "timestamp-column", "", "column holding the interval start")
	f.StringVar(&o.consumptionColumn, "consumption-column", "", "column holding the consumption in kW")
	f.StringVar(&o.title, "title", "", "heatmap title (default from config)")
	f.StringVar(&o.out, "out", render.DefaultFileName, "output path")
	f.StringVar(&o.format, "format", "", "html, xlsx, pdf or csv (default from --out extension)")
	f.BoolVar(&o.keepLast, "keep-last", false, "keep the last reading of a repeated interval instead of the first")
	for _, name := range []string{"sheet", "timestamp-column", "consumption-column"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, o *renderOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	svc, err := root.service(cfg)
	if err != nil {
		return err
	}

	format, err := outputFormat(o.format, o.out)
	if err != nil {
		return err
	}
	raw, err := readWorkbook(o.file)
	if err != nil {
		return err
	}

	req := pivot.Request{
		Sheet:             o.sheet,
		TimestampColumn:   o.timestampColumn,
		ConsumptionColumn: o.consumptionColumn,
		Title:             o.title,
	}
	if o.keepLast {
		req.Duplicates = pivot.KeepLast
	}

	out, err := svc.Export(cmd.Context(), raw, req, format, filepath.Base(o.out))
	if err != nil {
		return err
	}

	path := filepath.Join(filepath.Dir(o.out), out.FileName)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, SuccessMessage)
	fmt.Fprintf(w, "Wrote %s (%d bytes, %s)\n", path, len(out.Data), format)
	return nil
}

// outputFormat prefers --format and falls back to the output extension.
func outputFormat(flag, out string) (render.Format, error) {
	if strings.TrimSpace(flag) != "" {
		return render.ParseFormat(flag)
	}
	if f, err := render.ParseFormat(filepath.Ext(out)); err == nil {
		return f, nil
	}
	return render.FormatHTML, nil
}
