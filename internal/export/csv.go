package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// CSV renders the report as a multi-section CSV document: summary, type
// distribution, largest files, oldest files, duplicate groups.
func (e *Exporter) CSV(ctx context.Context) ([]byte, error) {
	data, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"--- SUMMARY ---"})
	w.Write([]string{"Report ID", data.ReportID})
	w.Write([]string{"Generated At", data.GeneratedAt.Format("2006-01-02 15:04:05")})
	w.Write([]string{"Total Files", strconv.FormatInt(data.Stats.TotalFiles, 10)})
	w.Write([]string{"Total Size", FormatBytes(data.Stats.TotalSize)})
	w.Write([]string{})

	w.Write([]string{"--- TYPE DISTRIBUTION ---"})
	w.Write([]string{"Extension", "Count", "Total Size", "Share"})
	totalSize := data.Stats.TotalSize
	if totalSize == 0 {
		totalSize = 1
	}
	for _, ext := range data.Stats.Extensions {
		name := ext.Extension
		if name == "" {
			name = "(no extension)"
		}
		share := float64(ext.TotalSize) / float64(totalSize) * 100
		w.Write([]string{
			name,
			strconv.FormatInt(ext.Count, 10),
			FormatBytes(ext.TotalSize),
			fmt.Sprintf("%.2f%%", share),
		})
	}
	w.Write([]string{})

	w.Write([]string{"--- TOP 100 LARGEST FILES ---"})
	w.Write([]string{"Path", "Name", "Size", "Modified At"})
	for _, f := range data.Largest {
		w.Write([]string{f.Path, f.Filename, FormatBytes(f.SizeBytes), formatEpoch(f.ModifiedAt)})
	}
	w.Write([]string{})

	w.Write([]string{"--- TOP 100 OLDEST FILES ---"})
	w.Write([]string{"Path", "Name", "Size", "Created At", "Modified At"})
	for _, f := range data.Oldest {
		w.Write([]string{f.Path, f.Filename, FormatBytes(f.SizeBytes), formatEpoch(f.CreatedAt), formatEpoch(f.ModifiedAt)})
	}
	w.Write([]string{})

	w.Write([]string{"--- DUPLICATE FILES ---"})
	w.Write([]string{"MD5 Group", "Count", "Wasted Space", "Paths"})
	for _, g := range data.Duplicates {
		w.Write([]string{
			g.Fingerprint,
			strconv.Itoa(g.Count),
			FormatBytes(g.WastedBytes),
			strings.Join(g.Paths, " | "),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
