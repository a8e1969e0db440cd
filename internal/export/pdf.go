package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// Page layout in millimetres on A4.
const (
	pdfPageCenter  = 105.0
	pdfTitleY      = 20.0
	pdfFirstItemY  = 40.0
	pdfMarginX     = 15.0
	pdfTextWidth   = 180.0
	pdfBreakY      = 270.0
	pdfTopY        = 20.0
	pdfLineHeight  = 5.0
	pdfAfterText   = 5.0
	pdfAfterAnswer = 7.0
	pdfAfterItem   = 15.0

	pdfTitleSize = 18.0
	pdfBodySize  = 12.0

	fontFamily   = "body"
	fallbackFont = "Helvetica"
)

// FontWarning is returned when the PDF was rendered without a Unicode
// font. The document is still produced.
type FontWarning struct {
	Path string // configured font path, empty when unset
	Err  error  // read or parse failure, nil when unset
}

func (w *FontWarning) Error() string {
	if w.Path == "" {
		return "no PDF font configured (set DRILLZ_PDF_FONT); non-Latin text may not display"
	}
	return fmt.Sprintf("PDF font %q unusable, using %s; non-Latin text may not display: %v", w.Path, fallbackFont, w.Err)
}

func (w *FontWarning) Unwrap() error { return w.Err }

// PDFExporter renders reports as PDF documents.
type PDFExporter struct {
	// FontPath is a UTF-8 TrueType font used for all text.
	FontPath string
}

// Write renders rep to w. A non-nil warning means the fallback font was
// used; err is only set when the document could not be produced.
func (e PDFExporter) Write(w io.Writer, rep Report) (warning *FontWarning, err error) {
	doc, warning := e.newDocument()
	pdf := doc.pdf

	pdf.SetTitle(rep.Title, true)
	pdf.SetCreator("drillz", true)
	pdf.AddPage()

	pdf.SetFontSize(pdfTitleSize)
	title := doc.tr(rep.Title)
	pdf.Text(pdfPageCenter-pdf.GetStringWidth(title)/2, pdfTitleY, title)

	y := pdfFirstItemY
	pdf.SetFontSize(pdfBodySize)
	for _, it := range rep.Items {
		if y > pdfBreakY {
			pdf.AddPage()
			y = pdfTopY
		}

		lines := doc.split(fmt.Sprintf("%d. %s", it.Number, it.Question), pdfTextWidth)
		for i, line := range lines {
			pdf.Text(pdfMarginX, y+float64(i)*pdfLineHeight, line)
		}
		y += float64(len(lines))*pdfLineHeight + pdfAfterText

		pdf.SetTextColor(100, 100, 100)
		pdf.Text(pdfMarginX, y, doc.tr("Your answer: "+it.AnswerText()))
		y += pdfAfterAnswer

		pdf.SetTextColor(0, 100, 0)
		pdf.Text(pdfMarginX, y, doc.tr("Correct answer: "+it.CorrectAnswer))
		y += pdfAfterItem
		pdf.SetTextColor(0, 0, 0)
	}

	if err := pdf.Output(w); err != nil {
		return warning, fmt.Errorf("render pdf: %w", err)
	}
	return warning, nil
}

// Save writes the PDF for rep into dir and returns its path.
func (e PDFExporter) Save(dir string, rep Report) (string, *FontWarning, error) {
	var buf bytes.Buffer
	warning, err := e.Write(&buf, rep)
	if err != nil {
		return "", warning, err
	}
	path, err := writeFile(dir, FileName(rep.Title, ".pdf"), buf.Bytes())
	return path, warning, err
}

// document pairs a PDF with the text encoding of its font.
type document struct {
	pdf     *fpdf.Fpdf
	unicode bool
	tr      func(string) string
}

// split wraps text to width w. Core fonts measure single-byte cp1252
// text, so the translated bytes are split as runes below 256.
func (d document) split(text string, w float64) []string {
	if d.unicode {
		return d.pdf.SplitText(text, w)
	}
	raw := d.tr(text)
	runes := make([]rune, len(raw))
	for i := 0; i < len(raw); i++ {
		runes[i] = rune(raw[i])
	}
	lines := d.pdf.SplitText(string(runes), w)
	for i, line := range lines {
		b := make([]byte, 0, len(line))
		for _, r := range line {
			b = append(b, byte(r))
		}
		lines[i] = string(b)
	}
	return lines
}

// newDocument creates a document with the configured font, or with the
// core fallback font and a cp1252 translator.
func (e PDFExporter) newDocument() (document, *FontWarning) {
	if e.FontPath == "" {
		return fallbackDocument(), &FontWarning{}
	}

	data, err := os.ReadFile(e.FontPath)
	if err == nil && !isTrueType(data) {
		err = errors.New("not a TrueType font")
	}
	if err == nil {
		pdf := fpdf.New("P", "mm", "A4", "")
		pdf.AddUTF8FontFromBytes(fontFamily, "", data)
		pdf.SetFont(fontFamily, "", pdfBodySize)
		if err = pdf.Error(); err == nil {
			return document{pdf: pdf, unicode: true, tr: func(s string) string { return s }}, nil
		}
	}
	return fallbackDocument(), &FontWarning{Path: e.FontPath, Err: err}
}

// isTrueType checks the sfnt version tag of a font file.
func isTrueType(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	tag := string(data[:4])
	return tag == "\x00\x01\x00\x00" || tag == "true"
}

func fallbackDocument() document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont(fallbackFont, "", pdfBodySize)
	return document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func writeFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
