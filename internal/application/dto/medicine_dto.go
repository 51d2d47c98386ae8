package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMedicineRequest body para POST /api/medicines.
type CreateMedicineRequest struct {
	Name          string          `json:"name"`
	GenericName   string          `json:"generic_name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel int             `json:"min_stock_level"`
}

// UpdateMedicineRequest body para PUT /api/medicines/:id (campos opcionales).
type UpdateMedicineRequest struct {
	Name          *string          `json:"name,omitempty"`
	GenericName   *string          `json:"generic_name,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	MinStockLevel *int             `json:"min_stock_level,omitempty"`
}

// MedicineResponse representación HTTP de un medicamento.
type MedicineResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	GenericName   string          `json:"generic_name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel int             `json:"min_stock_level"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MedicineListResponse listado paginado de medicamentos.
type MedicineListResponse struct {
	Medicines []MedicineResponse `json:"medicines"`
	Page      PageResponse       `json:"page"`
}
