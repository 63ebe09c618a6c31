package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
)

const ledgerExportFilename = "libro_validado.xlsx"

// LedgerHandler validación de libros tabulares (xlsx/csv).
type LedgerHandler struct {
	uc *audit.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *audit.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Validate godoc
// @Summary      Validar libro de facturas
// @Description  Verificación de IVA por fila y control de consecutivos por tipo (xlsx o csv).
// @Tags         ledger
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "libro .xlsx o .csv"
// @Success      200   {object}  dto.LedgerValidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/validate [post]
func (h *LedgerHandler) Validate(c *fiber.Ctx) error {
	file, ok, err := h.formFile(c)
	if !ok {
		return err
	}
	result, err := h.uc.ValidateFile(c.UserContext(), file.Filename, bytes.NewReader(file.Content))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(audit.ToLedgerResponse(result))
}

// Export godoc
// @Summary      Validar y descargar consolidado
// @Tags         ledger
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        file  formData  file  true  "libro .xlsx o .csv"
// @Success      200   {file}    file
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/validate/export [post]
func (h *LedgerHandler) Export(c *fiber.Ctx) error {
	file, ok, err := h.formFile(c)
	if !ok {
		return err
	}
	var buf bytes.Buffer
	if _, err := h.uc.ExportFile(c.UserContext(), file.Filename, bytes.NewReader(file.Content), &buf); err != nil {
		return writeError(c, err)
	}
	c.Attachment(ledgerExportFilename)
	c.Set(fiber.HeaderContentType, ContentTypeXLSX)
	return c.Send(buf.Bytes())
}

// formFile lee el campo "file". ok=false indica que la respuesta de error ya fue escrita.
func (h *LedgerHandler) formFile(c *fiber.Ctx) (dto.UploadedFile, bool, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return dto.UploadedFile{}, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo multipart 'file' requerido"})
	}
	file, err := readUploaded(fh)
	if err != nil {
		return dto.UploadedFile{}, false, writeError(c, err)
	}
	return file, true, nil
}
