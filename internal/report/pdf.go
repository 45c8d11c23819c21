package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// PDFBuilder renders report payloads to PDF files under a fixed directory.
type PDFBuilder struct {
	dir string
}

// NewPDFBuilder creates a builder writing into dir, creating it if needed.
func NewPDFBuilder(dir string) (*PDFBuilder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	return &PDFBuilder{dir: dir}, nil
}

// Build renders the payload and returns the output path.
func (b *PDFBuilder) Build(payload *Payload) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Site Analysis Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Site Analysis Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, tr(payload.URL), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+payload.GeneratedAt.UTC().Format(time.RFC3339), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	b.writeSection(pdf, tr, "Overview ("+payload.Summary.ContentType+")", []string{payload.Summary.Overview})

	metrics := payload.Metrics
	b.writeSection(pdf, tr, "Metrics", []string{
		fmt.Sprintf("Pages analyzed: %d", metrics.TotalPages),
		fmt.Sprintf("Internal links: %d / External links: %d", metrics.InternalLinks, metrics.ExternalLinks),
		"Keywords: " + strings.Join(metrics.Keywords, ", "),
	})

	// Section order is model-chosen and maps are unordered, so render
	// alphabetically for reproducible output.
	names := make([]string, 0, len(payload.Summary.Sections))
	for name := range payload.Summary.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines := payload.Summary.Sections[name]
		bullets := make([]string, 0, len(lines))
		for _, line := range lines {
			bullets = append(bullets, "- "+line)
		}
		b.writeSection(pdf, tr, sectionTitle(name), bullets)
	}

	name := fmt.Sprintf("report-%s-%s.pdf",
		payload.GeneratedAt.UTC().Format("20060102-150405"),
		uuid.NewString()[:8])
	path := filepath.Join(b.dir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing pdf %s: %w", path, err)
	}
	return path, nil
}

func (b *PDFBuilder) writeSection(pdf *fpdf.Fpdf, tr func(string) string, title string, lines []string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(3)
}

// sectionTitle turns a model key like "action_items" into "Action items".
func sectionTitle(key string) string {
	cleaned := strings.ReplaceAll(key, "_", " ")
	if cleaned == "" {
		return key
	}
	return strings.ToUpper(cleaned[:1]) + cleaned[1:]
}

// CleanupExpired removes report files older than ttl and reports how many
// were deleted.
func CleanupExpired(dir string, ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading report directory: %w", err)
	}

	removed := 0
	cutoff := time.Now().Add(-ttl)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "report-") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
