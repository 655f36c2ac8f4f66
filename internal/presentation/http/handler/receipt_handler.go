package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ferreteria/ordenes-api/internal/application/service"
	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/presentation/http/dto/response"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler handles receipt issuance, lookup and rendering
type ReceiptHandler struct {
	orderService   *service.OrderService
	receiptService *service.ReceiptService
	printerService *service.PrinterService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(
	orderService *service.OrderService,
	receiptService *service.ReceiptService,
	printerService *service.PrinterService,
) *ReceiptHandler {
	return &ReceiptHandler{
		orderService:   orderService,
		receiptService: receiptService,
		printerService: printerService,
	}
}

// Issue creates a receipt for the order in the path
func (h *ReceiptHandler) Issue(c *gin.Context) {
	ctx := c.Request.Context()
	orderCode := c.Param("code")

	order, err := h.orderService.Get(ctx, orderCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !canSee(c, order.OwnerID) {
		response.Error(c, apperror.NewNotFoundError("Order"))
		return
	}

	receipt, err := h.receiptService.Issue(ctx, orderCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt issued successfully", receiptView(receipt))
}

// ForOrder returns the latest receipt issued for the order in the path
func (h *ReceiptHandler) ForOrder(c *gin.Context) {
	receipt, err := h.receiptService.FindByOrder(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !canSee(c, receipt.OwnerID) {
		response.Error(c, apperror.NewNotFoundError("Receipt"))
		return
	}

	response.OK(c, "Receipt retrieved successfully", receiptView(receipt))
}

// Get returns a receipt by its code
func (h *ReceiptHandler) Get(c *gin.Context) {
	receipt, ok := h.visibleReceipt(c)
	if !ok {
		return
	}
	response.OK(c, "Receipt retrieved successfully", receiptView(receipt))
}

// PDF streams the receipt as a PDF attachment
func (h *ReceiptHandler) PDF(c *gin.Context) {
	if _, ok := h.visibleReceipt(c); !ok {
		return
	}

	data, receipt, err := h.printerService.RenderPDF(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=boleta_%s.pdf", receipt.Code))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Print sends the receipt to the thermal printer
func (h *ReceiptHandler) Print(c *gin.Context) {
	if _, ok := h.visibleReceipt(c); !ok {
		return
	}

	receipt, err := h.printerService.PrintReceipt(c.Request.Context(), c.Param("code"))
	if err != nil {
		// the receipt was found but the printer failed
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receiptView(receipt),
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", gin.H{
		"receipt": receiptView(receipt),
	})
}

// PrinterStatus reports the configured printer
func (h *ReceiptHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.Status(c.Request.Context()))
}

func (h *ReceiptHandler) visibleReceipt(c *gin.Context) (*entity.Receipt, bool) {
	receipt, err := h.receiptService.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if !canSee(c, receipt.OwnerID) {
		response.Error(c, apperror.NewNotFoundError("Receipt"))
		return nil, false
	}
	return receipt, true
}

func receiptView(r *entity.Receipt) gin.H {
	return gin.H{
		"code":       r.Code,
		"order_code": r.OrderCode,
		"customer":   r.Customer,
		"address":    r.Address,
		"phone":      r.Phone,
		"district":   r.District,
		"region":     r.Region,
		"items":      r.Items,
		"item_count": r.ItemCount,
		"net":        r.Net.StringFixed(2),
		"tax":        r.Tax.StringFixed(2),
		"total":      r.Total.StringFixed(2),
		"created_at": r.CreatedAt,
		"owner_id":   r.OwnerID,
	}
}
