package dto

// Límites de paginación del historial de lotes.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica el límite por defecto y acota Limit a MaxPageLimit y Offset a >= 0.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	// Count registros devueltos en esta página; menor que Limit indica la última.
	Count int `json:"count"`
}

// HistoryPage respuesta de GET /api/lots/{id}/history (más reciente primero).
type HistoryPage struct {
	Items []HistoryEntryDTO `json:"items"`
	Page  PageResponse      `json:"page"`
}

// LowStockReport respuesta de GET /api/inventory/low-stock.
type LowStockReport struct {
	Total    int           `json:"total"`
	Products []LowStockDTO `json:"products"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
