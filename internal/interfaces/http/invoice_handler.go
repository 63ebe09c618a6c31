package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
)

const invoiceExportFilename = "detalle_facturas.xlsx"

// InvoiceHandler carga, consulta, exportación y PDF de documentos XML importados.
type InvoiceHandler struct {
	importUC *invoicing.ImportUseCase
	queryUC  *invoicing.QueryUseCase
	exportUC *invoicing.ExportUseCase
	pdfUC    *invoicing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(importUC *invoicing.ImportUseCase, queryUC *invoicing.QueryUseCase, exportUC *invoicing.ExportUseCase, pdfUC *invoicing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{importUC: importUC, queryUC: queryUC, exportUC: exportUC, pdfUC: pdfUC}
}

// Upload importa un lote de XML. Siempre responde 200 con el reporte por archivo, salvo lote vacío.
// @Summary      Carga masiva de XML DIAN
// @Tags         invoices
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "uno o más archivos .xml"
// @Success      200    {object}  dto.ImportReport
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/invoices/upload [post]
func (h *InvoiceHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera multipart/form-data con el campo 'files'"})
	}
	headers := form.File["files"]
	files := make([]dto.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUploaded(fh)
		if err != nil {
			return writeError(c, err)
		}
		files = append(files, f)
	}
	report, err := h.importUC.ImportDocuments(c.UserContext(), files)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// List godoc
// @Summary      Listar documentos importados
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100 (por defecto 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200     {object}  dto.InvoiceListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit y offset deben ser enteros"})
	}
	if err := validate.Struct(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit debe estar entre 1 y 100 y offset ser >= 0"})
	}
	out, err := h.queryUC.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByDocumentID detalle con ítems.
// GET /api/invoices/:documentId
func (h *InvoiceHandler) GetByDocumentID(c *fiber.Ctx) error {
	out, err := h.queryUC.Get(c.UserContext(), c.Params("documentId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar documento (solo admin)
// @Tags         invoices
// @Security     Bearer
// @Param        documentId  path  string  true  "CUFE/CUDE"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{documentId} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.queryUC.Delete(c.UserContext(), c.Params("documentId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export descarga el consolidado "Detalle Facturas".
// GET /api/invoices/export
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if _, err := h.exportUC.Export(c.UserContext(), &buf); err != nil {
		return writeError(c, err)
	}
	c.Attachment(invoiceExportFilename)
	c.Set(fiber.HeaderContentType, ContentTypeXLSX)
	return c.Send(buf.Bytes())
}

// DownloadPDF representación gráfica del documento.
// GET /api/invoices/:documentId/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdfUC.DownloadInvoicePDF(c.UserContext(), c.Params("documentId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}
