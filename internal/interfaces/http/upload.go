package http

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
)

// ContentTypeXLSX tipo MIME de las descargas de hoja de cálculo.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var validate = validator.New()

// readUploaded lee el contenido completo de un archivo multipart.
func readUploaded(fh *multipart.FileHeader) (dto.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return dto.UploadedFile{}, fmt.Errorf("abrir %s: %w", fh.Filename, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return dto.UploadedFile{}, fmt.Errorf("leer %s: %w", fh.Filename, err)
	}
	return dto.UploadedFile{Filename: fh.Filename, Content: content}, nil
}
