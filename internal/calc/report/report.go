// Package report renders a calculation run as a printable PDF note.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"Concreteflow/internal/calc/joist"
	"Concreteflow/internal/calc/norms"
	"Concreteflow/internal/calc/run"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

type doc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (d doc) heading(s string) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.Cell(0, 7, d.tr(s))
	d.pdf.Ln(8)
	d.pdf.SetFont("Helvetica", "", 10)
}

func (d doc) line(format string, args ...any) {
	d.pdf.Cell(0, 5, d.tr(fmt.Sprintf(format, args...)))
	d.pdf.Ln(5)
}

func okText(ok bool) string {
	if ok {
		return "OK"
	}
	return "NOT OK"
}

func (d doc) check(name string, c norms.Check) {
	d.line("%-11s demand %.3f / limit %.3f  %s", name, c.Demand, c.Limit, okText(c.OK))
	if c.Message != "" {
		d.line("    %s", c.Message)
	}
}

// Render writes the PDF for res to w. now stamps the document date.
func Render(w io.Writer, m Meta, res run.Response, now time.Time) error {
	if m.Title == "" {
		m.Title = "Structural Calculation Note"
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	d := doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetTitle(m.Title, true)
	pdf.SetAuthor(m.Author, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, d.tr(m.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	d.line("Project: %s", m.Project)
	d.line("Author: %s", m.Author)
	d.line("Date: %s", now.Format("2006-01-02"))

	rep := res.Verification
	d.heading(fmt.Sprintf("Design code: %s", rep.CodeName))
	c := rep.Coefficients
	d.line("gamma_c %.2f  gamma_s %.2f  gamma_G %.2f  gamma_Q %.2f", c.GammaC, c.GammaS, c.GammaG, c.GammaQ)
	d.line("Concrete %s (fck %.0f MPa)  Steel %s (fy %.0f MPa)",
		rep.Materials.Concrete.Class, rep.Materials.Concrete.Fck, rep.Materials.Steel.Class, rep.Materials.Steel.Fy)

	d.heading("Element")
	g := rep.Geometry
	d.line("Span %.2f m  width %.2f m  height %.2f m  cover %.0f mm", g.SpanM, g.WidthM, g.HeightM, g.CoverM*1000)
	d.line("G = %.2f kN/m2  Q = %.2f kN/m2  (%s)", rep.Loads.G, rep.Loads.Q, rep.Actions.ComboName)
	d.line("M_ULS = %.2f kNm  M_SLS = %.2f kNm  V_ULS = %.2f kN",
		rep.Actions.MomentULSKNM, rep.Actions.MomentSLSKNM, rep.Actions.ShearULSKN)

	d.heading("Checks")
	d.check("Flexion", rep.Flexion.Check)
	d.line("    As,req = %.2f cm2  MRd = %.2f kNm", rep.Flexion.AsRequiredCM2, rep.Flexion.ResistingMomentKNM)
	d.check("Deflection", rep.Deflection.Check)
	d.line("    f = %.1f mm  f,adm = %.1f mm", rep.Deflection.TotalMM, rep.Deflection.LimitMM)
	d.check("Shear", rep.Shear.Check)
	if rep.Rebar.Summary != "" {
		d.line("Reinforcement: %s", rep.Rebar.Summary)
	}
	for _, wmsg := range rep.Warnings {
		d.line("Warning: %s", wmsg)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, d.tr(fmt.Sprintf("Verdict: %s. %s", rep.Summary.Status, rep.Summary.Message)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)

	if sel := res.Selection; sel != nil {
		selection(d, sel)
	}

	if m.Notes != "" {
		d.heading("Notes")
		pdf.MultiCell(0, 5, d.tr(m.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

func selection(d doc, sel *joist.Selection) {
	d.heading(fmt.Sprintf("Joist selection (%s)", sel.Policy))
	d.line("%s", sel.Message)
	d.line("%d entries considered, %d feasible, %d without a band for the load", sel.Considered, sel.Feasible, sel.Uncovered)
	if sel.Selected != nil {
		row(d, "Selected", *sel.Selected)
	}
	for i, c := range sel.Alternatives {
		row(d, fmt.Sprintf("Alt. %d", i+1), c)
	}
	for _, c := range sel.NearMisses {
		row(d, "Near miss", c)
	}
}

func row(d doc, label string, c joist.Candidate) {
	d.line("%-9s %s  block %d cm @ %d cm  %.2f m under %.0f kg/m2  %.1f%%  floor %.0f cm",
		label, c.Entry.Reference, c.Entry.BlockHeightCM, c.Entry.SpacingCM,
		c.AllowedSpanM, c.BandLoadKgM2, c.UtilizationPct, c.TotalHeightCM)
}
