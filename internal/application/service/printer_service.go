package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/ferreteria/ordenes-api/pkg/printer"
	"github.com/ferreteria/ordenes-api/pkg/receiptpdf"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const receiptDateLayout = "02-01-2006 15:04"

// PrinterService renders receipts for the thermal printer and as PDF.
type PrinterService struct {
	receipts *ReceiptService
	printer  printer.Printer
	header   entity.ReceiptHeader
	width    int
	location *time.Location
	log      zerolog.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	receipts *ReceiptService,
	p printer.Printer,
	header entity.ReceiptHeader,
	width int,
	location *time.Location,
	log zerolog.Logger,
) *PrinterService {
	if location == nil {
		location = time.UTC
	}
	return &PrinterService{
		receipts: receipts,
		printer:  p,
		header:   header,
		width:    width,
		location: location,
		log:      log.With().Str("component", "printer").Logger(),
	}
}

// PrinterStatus describes the configured printer.
type PrinterStatus struct {
	Type      string `json:"type"`
	Available bool   `json:"available"`
}

// Status reports the printer kind and whether it can be reached.
func (s *PrinterService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Type:      s.printer.Kind(),
		Available: s.printer.Available(ctx),
	}
}

// PrintReceipt sends receipt code to the printer. The receipt is returned
// even when printing fails so callers can still show it.
func (s *PrinterService) PrintReceipt(ctx context.Context, code string) (*entity.Receipt, error) {
	receipt, err := s.receipts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	job := FormatReceipt(receipt, s.header, s.width, s.location)
	if err := s.printer.Print(ctx, job); err != nil {
		s.log.Error().Err(err).Str("code", code).Msg("print failed")
		return receipt, apperror.NewAppError(http.StatusBadGateway, fmt.Sprintf("Failed to print receipt: %v", err))
	}

	s.log.Info().Str("code", code).Str("printer", s.printer.Kind()).Msg("receipt printed")
	return receipt, nil
}

// RenderPDF returns receipt code as a PDF document.
func (s *PrinterService) RenderPDF(ctx context.Context, code string) ([]byte, *entity.Receipt, error) {
	receipt, err := s.receipts.FindByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	data, err := receiptpdf.Render(ReceiptDocument(receipt, s.header, s.location))
	if err != nil {
		return nil, receipt, apperror.NewStorageError("Failed to render receipt", err)
	}
	return data, receipt, nil
}

// ReceiptDocument maps a receipt onto the PDF layout.
func ReceiptDocument(r *entity.Receipt, h entity.ReceiptHeader, loc *time.Location) *receiptpdf.Document {
	doc := &receiptpdf.Document{
		StoreName:    h.StoreName,
		StoreAddress: h.Address,
		StorePhone:   h.Phone,
		StoreTaxID:   h.TaxID,
		Title:        "Boleta",
		Code:         r.Code,
		OrderCode:    r.OrderCode,
		Date:         r.CreatedAt.In(loc).Format(receiptDateLayout),
		Customer:     r.Customer,
		Address:      r.Address,
		Phone:        r.Phone,
		District:     r.District,
		Region:       r.Region,
		ItemCount:    r.ItemCount,
		Net:          money(r.Net),
		Tax:          money(r.Tax),
		TaxLabel:     "IVA 19%",
		Total:        money(r.Total),
		Footer:       "Gracias por su compra",
	}
	for _, it := range r.Items {
		doc.Lines = append(doc.Lines, receiptpdf.Line{
			Product:  it.Product,
			Quantity: it.Quantity,
			Price:    money(it.Price),
			Subtotal: money(it.Subtotal()),
		})
	}
	return doc
}

// FormatReceipt converts a receipt into an ESC/POS job.
func FormatReceipt(r *entity.Receipt, h entity.ReceiptHeader, width int, loc *time.Location) []byte {
	t := printer.NewTicket(width)

	t.Align(printer.Center).
		Bold(true).
		Size(printer.Double).
		Line(h.StoreName).
		Size(printer.Normal).
		Bold(false)
	if h.Address != "" {
		t.Line(h.Address)
	}
	if h.Phone != "" {
		t.Line(h.Phone)
	}
	if h.TaxID != "" {
		t.Linef("RUT %s", h.TaxID)
	}

	t.Align(printer.Left).Rule('-')
	t.Bold(true).Pair("BOLETA", r.Code).Bold(false).
		Pair("Orden:", r.OrderCode).
		Pair("Fecha:", r.CreatedAt.In(loc).Format(receiptDateLayout))
	t.Line("Cliente: " + r.Customer)
	t.Line("Dir.: " + r.Address)
	t.Line(r.District + ", " + r.Region)
	if r.Phone != "" {
		t.Line("Fono: " + r.Phone)
	}
	t.Rule('-')

	for _, it := range r.Items {
		t.Item(it.Quantity, it.Product, money(it.Subtotal()))
		if it.Quantity > 1 {
			t.Linef("  @ %s c/u", money(it.Price))
		}
	}
	t.Rule('-')

	t.Pair("Articulos:", fmt.Sprintf("%d", r.ItemCount)).
		Pair("Neto:", money(r.Net)).
		Pair("IVA 19%:", money(r.Tax)).
		Bold(true).
		Pair("TOTAL:", money(r.Total)).
		Bold(false).
		Rule('-')

	t.Align(printer.Center).
		Feed(1).
		Line("Gracias por su compra").
		Align(printer.Left).
		Feed(3).
		Cut()

	return t.Bytes()
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
