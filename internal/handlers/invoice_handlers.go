package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"slginvoice/internal/common"
	"slginvoice/internal/gst"
	"slginvoice/internal/models"
	"slginvoice/internal/repositories"
	"slginvoice/internal/services"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

//go:embed templates/invoice_preview.html
var previewFS embed.FS

var previewTemplate = template.Must(template.ParseFS(previewFS, "templates/invoice_preview.html"))

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
	assetService   services.AssetService
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface, assetService services.AssetService) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		assetService:   assetService,
	}
}

type createInvoiceRequest struct {
	InvoiceDate        string          `json:"invoice_date"`
	SACCode            string          `json:"sac_code"`
	ClientName         string          `json:"client_name"`
	ClientAddress      string          `json:"client_address"`
	ContractNo         *string         `json:"contract_no"`
	ContractDate       *string         `json:"contract_date"`
	ServiceDescription string          `json:"service_description"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	State              string          `json:"state"`
	CGSTRate           decimal.Decimal `json:"cgst_rate"`
	SGSTRate           decimal.Decimal `json:"sgst_rate"`
	IGSTRate           decimal.Decimal `json:"igst_rate"`
	SignatureID        *string         `json:"signature_id"`
	IncludeStamp       bool            `json:"include_stamp"`
	StampID            *string         `json:"stamp_id"`
}

const dateLayout = "2006-01-02"

// CreateInvoice handles POST /invoices. The tax-inclusive total entered by
// the operator is decomposed at creation; the response carries the stored
// record including the assigned invoice number and rounded total.
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.State == "" {
		return common.SendValidationError(c, "state", "state is required")
	}

	invoice := &models.Invoice{
		SACCode:            req.SACCode,
		ClientName:         req.ClientName,
		ClientAddress:      req.ClientAddress,
		ContractNo:         req.ContractNo,
		ServiceDescription: req.ServiceDescription,
		TotalAmount:        req.TotalAmount,
		State:              req.State,
		CGSTRate:           req.CGSTRate,
		SGSTRate:           req.SGSTRate,
		IGSTRate:           req.IGSTRate,
		IncludeStamp:       req.IncludeStamp,
	}

	if req.InvoiceDate != "" {
		date, err := time.Parse(dateLayout, req.InvoiceDate)
		if err != nil {
			return common.SendValidationError(c, "invoice_date", "must be formatted YYYY-MM-DD")
		}
		invoice.InvoiceDate = date
	}
	if req.ContractDate != nil && *req.ContractDate != "" {
		date, err := time.Parse(dateLayout, *req.ContractDate)
		if err != nil {
			return common.SendValidationError(c, "contract_date", "must be formatted YYYY-MM-DD")
		}
		invoice.ContractDate = &date
	}
	if req.SignatureID != nil && *req.SignatureID != "" {
		id, err := common.ValidateUUID(*req.SignatureID, "signature_id")
		if err != nil {
			return common.SendValidationError(c, "signature_id", err.Error())
		}
		invoice.SignatureID = &id
	}
	if req.StampID != nil && *req.StampID != "" {
		id, err := common.ValidateUUID(*req.StampID, "stamp_id")
		if err != nil {
			return common.SendValidationError(c, "stamp_id", err.Error())
		}
		invoice.StampID = &id
	}

	if err := h.invoiceService.CreateInvoice(ctx, invoice); err != nil {
		if errors.Is(err, services.ErrValidation) {
			return common.SendValidationError(c, "invoice", err.Error())
		}
		if errors.Is(err, repositories.ErrDuplicateInvoiceNumber) {
			return common.SendConflictError(c, "Invoice number already exists")
		}
		return common.SendServerError(c, "Failed to create invoice")
	}

	return c.JSON(http.StatusCreated, invoice)
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 20
	offset := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}

	invoices, err := h.invoiceService.ListInvoices(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	invoice, err := h.fetchInvoice(c)
	if err != nil {
		return err
	}
	if invoice == nil {
		return nil // error response already written
	}
	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles DELETE /invoices/:id. Hard delete; a second delete
// of the same identifier reports not found.
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.invoiceService.DeleteInvoice(ctx, invoiceID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to delete invoice")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Invoice deleted successfully",
	})
}

type previewData struct {
	Invoice       *models.Invoice
	AmountInWords string
	IsIntraState  bool
	SignatureURL  string
	StampURL      string
}

// PreviewInvoice handles GET /invoices/:id/preview with an HTML rendition of
// the stored invoice.
func (h *InvoiceHandlers) PreviewInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	invoice, err := h.fetchInvoice(c)
	if err != nil || invoice == nil {
		return err
	}

	data := previewData{
		Invoice:       invoice,
		AmountInWords: h.invoiceService.AmountInWords(invoice),
		IsIntraState:  gst.RegimeFor(invoice.State) == gst.RegimeIntraState,
	}
	if invoice.SignatureID != nil {
		if url, err := h.assetService.SignatureURL(ctx, *invoice.SignatureID); err == nil {
			data.SignatureURL = url
		}
	}
	if invoice.IncludeStamp && invoice.StampID != nil {
		if url, err := h.assetService.StampURL(ctx, *invoice.StampID); err == nil {
			data.StampURL = url
		}
	}

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return common.SendServerError(c, "Failed to render preview")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// DownloadInvoicePDF handles GET /invoices/:id/pdf
func (h *InvoiceHandlers) DownloadInvoicePDF(c echo.Context) error {
	invoice, err := h.fetchInvoice(c)
	if err != nil || invoice == nil {
		return err
	}

	pdfBytes, err := h.renderInvoicePDF(c, invoice)
	if err != nil {
		return common.SendServerError(c, "Failed to generate PDF")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.pdf"`, invoice.InvoiceNumber))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

// fetchInvoice resolves the :id parameter. On validation or lookup failure
// it writes the error response itself and returns a nil invoice.
func (h *InvoiceHandlers) fetchInvoice(c echo.Context) (*models.Invoice, error) {
	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return nil, common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request().Context(), invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.SendNotFoundError(c, "invoice")
		}
		return nil, common.SendServerError(c, "Failed to retrieve invoice")
	}
	return invoice, nil
}

// renderInvoicePDF draws the invoice with gofpdf, embedding the signature
// and stamp images when configured.
func (h *InvoiceHandlers) renderInvoicePDF(c echo.Context, invoice *models.Invoice) ([]byte, error) {
	ctx := c.Request().Context()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)

	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "TAX INVOICE")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Date: %s", invoice.InvoiceDate.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("SAC Code: %s", invoice.SACCode))
	pdf.Ln(8)
	if invoice.ContractNo != nil && *invoice.ContractNo != "" {
		line := fmt.Sprintf("Contract No: %s", *invoice.ContractNo)
		if invoice.ContractDate != nil {
			line += fmt.Sprintf(" dated %s", invoice.ContractDate.Format("02-Jan-2006"))
		}
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, invoice.ClientName, "", "L", false)
	pdf.MultiCell(0, 6, invoice.ClientAddress, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "SERVICE DESCRIPTION:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 5, invoice.ServiceDescription, "", "L", false)
	pdf.Ln(6)

	// Amounts table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(130, 8, "Particulars", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Amount (INR)", "1", 0, "R", true, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	amountRow := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(130, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	amountRow("Base Amount", invoice.BaseAmount)
	if gst.RegimeFor(invoice.State) == gst.RegimeIntraState {
		amountRow(fmt.Sprintf("CGST @ %s%%", invoice.CGSTRate.String()), invoice.CGSTAmount)
		amountRow(fmt.Sprintf("SGST @ %s%%", invoice.SGSTRate.String()), invoice.SGSTAmount)
	} else {
		amountRow(fmt.Sprintf("IGST @ %s%%", invoice.IGSTRate.String()), invoice.IGSTAmount)
	}
	amountRow("Round Off", invoice.RoundOff)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "TOTAL", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, invoice.TotalAmount.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(0, 6, "Amount in words:")
	pdf.Ln(5)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, h.invoiceService.AmountInWords(invoice))
	pdf.Ln(14)

	if invoice.SignatureID != nil {
		if img, err := h.assetService.SignatureImage(ctx, *invoice.SignatureID); err == nil {
			h.placeImage(pdf, "signature", img, 140, pdf.GetY(), 40)
		}
	}
	if invoice.IncludeStamp && invoice.StampID != nil {
		if img, err := h.assetService.StampImage(ctx, *invoice.StampID); err == nil {
			h.placeImage(pdf, "stamp", img, 100, pdf.GetY(), 30)
		}
	}

	pdf.SetY(-40)
	pdf.SetFont("Arial", "", 8)
	pdf.Cell(0, 5, "Authorised Signatory")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *InvoiceHandlers) placeImage(pdf *gofpdf.Fpdf, name string, img []byte, x, y, width float64) {
	imageType := detectImageType(img)
	if imageType == "" {
		return
	}
	pdf.RegisterImageOptionsReader(name,
		gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true},
		bytes.NewReader(img))
	pdf.ImageOptions(name, x, y, width, 0, false,
		gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}, 0, "")
}

func detectImageType(img []byte) string {
	switch http.DetectContentType(img) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}
