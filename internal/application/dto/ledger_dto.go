package dto

import "time"

// LedgerQueryRequest query de GET /api/ledger y /api/ledger/export.
type LedgerQueryRequest struct {
	Page     int        `query:"page" validate:"omitempty,min=1"`
	PageSize int        `query:"page_size" validate:"omitempty,min=1,max=100"`
	Tipo     string     `query:"tipo" validate:"omitempty,oneof=refaccion servicio devolucion"`
	Search   string     `query:"search" validate:"max=200"`
	From     *time.Time `query:"-"`
	To       *time.Time `query:"-"`
}

// LedgerPageResponse página del feed unificado.
type LedgerPageResponse struct {
	Results  []SaleTransactionDTO `json:"results"`
	Count    int                  `json:"count"`
	Next     *int                 `json:"next"`
	Previous *int                 `json:"previous"`
}
