// Package receiptpdf renders a receipt as a single A4 PDF page.
package receiptpdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Line is one row of the items table. Amounts arrive preformatted.
type Line struct {
	Product  string
	Quantity int
	Price    string
	Subtotal string
}

// Document holds everything printed on the page.
type Document struct {
	StoreName    string
	StoreAddress string
	StorePhone   string
	StoreTaxID   string

	Title     string
	Code      string
	OrderCode string
	Date      string

	Customer string
	Address  string
	Phone    string
	District string
	Region   string

	Lines     []Line
	ItemCount int
	Net       string
	Tax       string
	TaxLabel  string
	Total     string
	Footer    string
}

var columnWidths = []float64{95, 20, 35, 40}

// Render returns the PDF bytes for doc.
func Render(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title+" "+doc.Code, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, tr(doc.StoreName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, s := range []string{doc.StoreAddress, doc.StorePhone, taxID(doc.StoreTaxID)} {
		if s != "" {
			pdf.CellFormat(0, 5, tr(s), "", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s %s", doc.Title, doc.Code)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	field(pdf, tr, "Orden", doc.OrderCode)
	field(pdf, tr, "Fecha", doc.Date)
	field(pdf, tr, "Cliente", doc.Customer)
	field(pdf, tr, "Dirección", doc.Address)
	field(pdf, tr, "Teléfono", doc.Phone)
	field(pdf, tr, "Comuna", doc.District)
	field(pdf, tr, "Región", doc.Region)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Producto", "Cant.", "Precio", "Subtotal"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(columnWidths[i], 7, tr(h), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, l := range doc.Lines {
		pdf.CellFormat(columnWidths[0], 6, tr(l.Product), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[1], 6, fmt.Sprintf("%d", l.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[2], 6, l.Price, "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[3], 6, l.Subtotal, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(3)

	label := columnWidths[0] + columnWidths[1] + columnWidths[2]
	total := func(name, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(label, 6, tr(name), "", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[3], 6, value, "", 1, "R", false, 0, "")
	}
	total("Artículos", fmt.Sprintf("%d", doc.ItemCount), false)
	total("Neto", doc.Net, false)
	total(doc.TaxLabel, doc.Tax, false)
	total("Total", doc.Total, true)

	if doc.Footer != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 5, tr(doc.Footer), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receiptpdf: %w", err)
	}
	return buf.Bytes(), nil
}

func field(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 5, tr(label+":"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, tr(value), "", 1, "L", false, 0, "")
}

func taxID(id string) string {
	if id == "" {
		return ""
	}
	return "RUT " + id
}
