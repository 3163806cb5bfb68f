package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ausadhi/pos-api/internal/config"
	"github.com/ausadhi/pos-api/internal/domain/entity"
	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/pkg/apperror"
	"github.com/ausadhi/pos-api/pkg/printer"
)

// PrinterService formats receipts and drives the thermal printer
type PrinterService struct {
	printer  printer.Printer
	saleRepo repository.SaleRepository
	store    config.StoreConfig
	width    int
	enabled  bool
}

// NewPrinterService creates a new printer service
func NewPrinterService(p printer.Printer, saleRepo repository.SaleRepository, store config.StoreConfig, width int, enabled bool) *PrinterService {
	if width <= 0 {
		width = 32
	}
	return &PrinterService{
		printer:  p,
		saleRepo: saleRepo,
		store:    store,
		width:    width,
		enabled:  enabled,
	}
}

// PrinterStatus describes the printer's availability
type PrinterStatus struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

// GetStatus returns whether the printer is enabled and reachable
func (s *PrinterService) GetStatus() PrinterStatus {
	return PrinterStatus{
		Enabled:   s.enabled,
		Connected: s.enabled && s.printer.IsConnected(),
	}
}

// TestPrint sends a short test page to verify the hardware path
func (s *PrinterService) TestPrint() error {
	if !s.enabled {
		return apperror.NewBadRequestError("Printer is disabled")
	}

	doc := printer.NewDocument(s.width)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(s.store.Name).
		SetBold(false).
		Text("PRINTER TEST").
		Text(time.Now().Format("2006-01-02 15:04:05")).
		FeedLines(3).
		Cut()

	return s.printer.Print(doc.Bytes())
}

// PrintReceipt renders a receipt to ESC/POS and sends it to the printer
func (s *PrinterService) PrintReceipt(receipt *entity.Receipt) error {
	if !s.enabled {
		return apperror.NewBadRequestError("Printer is disabled")
	}
	return s.printer.Print(s.FormatReceipt(receipt))
}

// PrintSaleReceipt reprints the receipt of a persisted sale
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID) error {
	receipt, err := s.ReceiptForSale(ctx, saleID)
	if err != nil {
		return err
	}
	return s.PrintReceipt(receipt)
}

// ReceiptForSale rebuilds the receipt value object from a persisted sale
func (s *PrinterService) ReceiptForSale(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	items := make([]entity.ReceiptItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.Total) / 100,
		})
	}

	return &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: s.store.Name,
			Address:   s.store.Address,
			Phone:     s.store.Phone,
			TaxID:     s.store.TaxID,
		},
		TransactionID: sale.TransactionID,
		Date:          sale.SaleDate.Format("2006-01-02"),
		Time:          sale.SaleDate.Format("15:04:05"),
		Cashier:       sale.Cashier.FullName(),
		PaymentMethod: sale.PaymentMethod,
		Items:         items,
		SubTotal:      float64(sale.SubTotal) / 100,
		Tax:           float64(sale.Tax) / 100,
		Discount:      float64(sale.Discount) / 100,
		Total:         float64(sale.Total) / 100,
		CashReceived:  float64(sale.CashReceived) / 100,
		Change:        float64(sale.Change) / 100,
	}, nil
}

// FormatReceipt renders a receipt as an ESC/POS byte stream
func (s *PrinterService) FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text("Tel: " + r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.Text("PAN: " + r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).Separator('-')
	doc.KeyValue("Txn", r.TransactionID)
	doc.KeyValue("Date", r.Date+" "+r.Time)
	if r.Cashier != "" {
		doc.KeyValue("Cashier", r.Cashier)
	}
	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
	}

	doc.Separator('-')
	doc.KeyValue("Subtotal", fmt.Sprintf("%.2f", r.SubTotal))
	doc.KeyValue("Tax (13%)", fmt.Sprintf("%.2f", r.Tax))
	if r.Discount > 0 {
		doc.KeyValue("Discount", fmt.Sprintf("-%.2f", r.Discount))
	}
	doc.SetBold(true)
	doc.KeyValue("TOTAL", fmt.Sprintf("%.2f", r.Total))
	doc.SetBold(false)

	doc.KeyValue("Paid by", strings.ToUpper(r.PaymentMethod))
	if r.PaymentMethod == "cash" {
		doc.KeyValue("Cash", fmt.Sprintf("%.2f", r.CashReceived))
		doc.KeyValue("Change", fmt.Sprintf("%.2f", r.Change))
	}

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you, get well soon!").
		FeedLines(3).
		Cut()

	return doc.Bytes()
}

// FormatReceiptText renders a receipt as plain monospace text for emails
func (s *PrinterService) FormatReceiptText(r *entity.Receipt) string {
	var b strings.Builder
	rule := strings.Repeat("-", s.width)

	center := func(text string) {
		pad := (s.width - len(text)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad) + text + "\n")
	}
	row := func(key, value string) {
		pad := s.width - len(key) - len(value)
		if pad < 1 {
			pad = 1
		}
		b.WriteString(key + strings.Repeat(" ", pad) + value + "\n")
	}

	center(r.Header.StoreName)
	if r.Header.Address != "" {
		center(r.Header.Address)
	}
	if r.Header.Phone != "" {
		center("Tel: " + r.Header.Phone)
	}
	b.WriteString(rule + "\n")
	row("Txn", r.TransactionID)
	row("Date", r.Date+" "+r.Time)
	if r.Cashier != "" {
		row("Cashier", r.Cashier)
	}
	b.WriteString(rule + "\n")

	for _, item := range r.Items {
		row(fmt.Sprintf("%dx %s", item.Quantity, item.Name), fmt.Sprintf("%.2f", item.Total))
	}

	b.WriteString(rule + "\n")
	row("Subtotal", fmt.Sprintf("%.2f", r.SubTotal))
	row("Tax (13%)", fmt.Sprintf("%.2f", r.Tax))
	if r.Discount > 0 {
		row("Discount", fmt.Sprintf("-%.2f", r.Discount))
	}
	row("TOTAL", fmt.Sprintf("%.2f", r.Total))
	row("Paid by", strings.ToUpper(r.PaymentMethod))
	if r.PaymentMethod == "cash" {
		row("Cash", fmt.Sprintf("%.2f", r.CashReceived))
		row("Change", fmt.Sprintf("%.2f", r.Change))
	}
	b.WriteString("\n")
	center("Thank you, get well soon!")

	return b.String()
}
