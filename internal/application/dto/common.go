package dto

import "github.com/jhoicas/fulfillment-core/internal/domain"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// Paginate recorta items según la página y devuelve los metadatos.
func Paginate[T any](items []T, p PageRequest) ([]T, PageResponse) {
	p.DefaultPage()
	meta := PageResponse{Limit: p.Limit, Offset: p.Offset, Total: len(items)}
	if p.Offset >= len(items) {
		return []T{}, meta
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end], meta
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ItemOutcomeDTO resultado del ajuste de ledger de un ítem.
type ItemOutcomeDTO struct {
	ProductID string `json:"product_id"`
	Change    int    `json:"change"`
	EntryID   string `json:"entry_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FromOutcomes mapea outcomes de dominio.
func FromOutcomes(in []domain.ItemOutcome) []ItemOutcomeDTO {
	out := make([]ItemOutcomeDTO, 0, len(in))
	for _, o := range in {
		d := ItemOutcomeDTO{ProductID: o.ProductID, Change: o.Change, EntryID: o.EntryID}
		if o.Err != nil {
			d.Error = o.Err.Error()
		}
		out = append(out, d)
	}
	return out
}
