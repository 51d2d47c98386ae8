package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLogDTO entrada de la bitácora para la vista de auditoría.
type StockLogDTO struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	BatchID      string          `json:"batch_id"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	PerformedBy  PerformedByDTO  `json:"performed_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PerformedByDTO actor del evento (atribución, no autorización).
type PerformedByDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// StockLogListResponse listado paginado de bitácora.
type StockLogListResponse struct {
	Logs []StockLogDTO `json:"logs"`
	Page PageResponse  `json:"page"`
}
