package report

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"Airside/internal/compliance"
	"Airside/internal/findings"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string             `json:"project"`
	Author  string             `json:"author"`
	Title   string             `json:"title"`
	Notes   string             `json:"notes"`
	Run     *compliance.Report `json:"run"`
}

// Render writes a PDF of a compliance run: header, per-loop sizing table,
// then the warnings grouped by kind.
func Render(w io.Writer, in Input) error {
	if in.Title == "" {
		in.Title = "HVAC Compliance Report"
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if in.Project != "" {
		line(pdf, "Project: %s", in.Project)
	}
	if in.Author != "" {
		line(pdf, "Author: %s", in.Author)
	}
	line(pdf, "Date: %s", time.Now().Format("2006-01-02"))

	if run := in.Run; run != nil {
		line(pdf, "Model: %s", run.Model)
		line(pdf, "Template: %s", run.Template)
		line(pdf, "Run: %s", run.ID)
		line(pdf, "Zones adjusted: %d", run.ZonesAdjusted)
		pdf.Ln(4)
		loops(pdf, run)
		if run.Findings != nil {
			warnings(pdf, run.Findings)
		}
	}
	if in.Notes != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 6, in.Notes, "", "L", false)
	}
	return pdf.Output(w)
}

func line(pdf *gofpdf.Fpdf, format string, args ...any) {
	pdf.Cell(0, 6, fmt.Sprintf(format, args...))
	pdf.Ln(6)
}

func loops(pdf *gofpdf.Fpdf, run *compliance.Report) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Ventilation sizing")
	pdf.Ln(8)

	header := []string{"Air loop", "V_ou m3/s", "E_v", "E_v adj", "V_ot adj m3/s", "Zones adj."}
	widths := []float64{50, 25, 20, 20, 30, 25}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, lr := range run.AirLoops {
		cells := []string{lr.AirLoop, "-", "-", "-", "-", "-"}
		switch {
		case lr.Sizing != nil && lr.Error == "":
			s := lr.Sizing
			cells = []string{
				lr.AirLoop,
				fmt.Sprintf("%.4f", s.Vou),
				fmt.Sprintf("%.3f", s.Ev),
				fmt.Sprintf("%.3f", s.EvAdj),
				fmt.Sprintf("%.4f", s.VotAdj),
				fmt.Sprintf("%d", s.ZonesAdjusted),
			}
		case lr.Error != "":
			cells[1] = "not sized"
		case !lr.Multizone:
			cells[1] = "n/a"
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func warnings(pdf *gofpdf.Fpdf, rep *findings.Report) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Warnings (%d)", len(rep.Warnings)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	if len(rep.Warnings) == 0 {
		line(pdf, "None.")
		return
	}
	byKind := map[findings.Kind][]findings.Finding{}
	for _, f := range rep.Warnings {
		byKind[f.Kind] = append(byKind[f.Kind], f)
	}
	for _, k := range rep.Kinds() {
		pdf.SetFont("Helvetica", "B", 10)
		line(pdf, "%s", k)
		pdf.SetFont("Helvetica", "", 10)
		for _, f := range byKind[k] {
			text := f.Message
			if f.Object != "" {
				text = f.Object + ": " + text
			}
			pdf.MultiCell(0, 5, "- "+text, "", "L", false)
		}
	}
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	Write(w, input)
}

// Write sends the rendered PDF as a download.
func Write(w http.ResponseWriter, in Input) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	if err := Render(w, in); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
