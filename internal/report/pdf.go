package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"gitalyzer/internal/models"
)

// Document dates are pinned so identical analyses produce byte-identical
// documents.
var stampTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Build renders the analysis as a PDF. Sections with no content are skipped
// entirely; an empty analysis still yields a valid document carrying only
// the title, header, and footer. Text is transliterated to the core-font
// code page, so characters it cannot represent degrade instead of failing
// the render.
func Build(repoName string, a models.Analysis) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(40, 40, 40)
		pdf.CellFormat(0, 10, "Gitalyzer Report", "", 1, "C", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCreationDate(stampTime)
	pdf.SetModificationDate(stampTime)
	pdf.AddPage()

	title := repoName
	if title == "" {
		title = "Repository Report"
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr(title), "", 1, "", false, 0, "")
	pdf.Ln(4)

	writeSection := func(heading, body string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(0, 8, tr(heading), "", "", false)
		pdf.Ln(1)
		if body != "" {
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(10, 10, 10)
			pdf.MultiCell(0, 6, tr(body), "", "", false)
			pdf.Ln(2)
		}
	}
	writeList := func(items []string) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(10, 10, 10)
		for _, item := range items {
			pdf.MultiCell(0, 6, tr("• "+item), "", "", false)
		}
		pdf.Ln(2)
	}

	if a.ProjectSummary != "" {
		writeSection("Project Summary", a.ProjectSummary)
	}
	if a.HowItHelpsPeople != "" {
		writeSection("How it helps people", a.HowItHelpsPeople)
	}
	if len(a.MainFeatures) > 0 {
		writeSection("Main features", "")
		writeList(a.MainFeatures)
	}
	if len(a.HowItWorks) > 0 {
		writeSection("How it works", "")
		writeList(a.HowItWorks)
	}
	if len(a.TechStack) > 0 {
		writeSection("Tech explained simply", "")
		writeList(a.TechStack)
	}
	if len(a.GettingStarted) > 0 {
		writeSection("Getting started", "")
		writeList(a.GettingStarted)
	}
	if len(a.NextSteps) > 0 {
		writeSection("Next steps", "")
		writeList(a.NextSteps)
	}
	if len(a.Glossary) > 0 {
		writeSection("Glossary", "")
		for _, entry := range a.Glossary {
			if entry.Term == "" || entry.Definition == "" {
				continue
			}
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(entry.Term), "", "", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(entry.Definition), "", "", false)
			pdf.Ln(1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}
