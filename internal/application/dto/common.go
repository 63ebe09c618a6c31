package dto

// DefaultPageLimit tamaño de página cuando el cliente no envía limit.
const DefaultPageLimit = 20

// PageRequest ?limit=&offset= de los listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage completa limit y corrige offsets negativos.
func (p *PageRequest) DefaultPage() {
	p.Limit = max(p.Limit, 0)
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
	p.Offset = max(p.Offset, 0)
}

// PageResponse página devuelta junto al total de documentos.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo JSON de toda respuesta de error ({code, message}).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
