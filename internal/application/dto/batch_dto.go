package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInRequest body para POST /api/batches/stock-in.
// ExpiryDate en formato YYYY-MM-DD; debe ser estrictamente posterior a hoy.
type StockInRequest struct {
	MedicineID  string `json:"medicine_id"`
	BatchNumber string `json:"batch_number"`
	Quantity    int    `json:"quantity"`
	ExpiryDate  string `json:"expiry_date"`
}

// StockOutRequest body para POST /api/batches/stock-out.
// La salida se asigna automáticamente por FEFO; el caller no elige lote.
type StockOutRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// AllocationLineDTO línea del recibo de salida: cuánto se tomó de qué lote,
// en el orden en que se consumió.
type AllocationLineDTO struct {
	BatchID     string `json:"batch_id"`
	BatchNumber string `json:"batch_number"`
	Quantity    int    `json:"quantity"`
}

// StockOutReceiptDTO respuesta de una salida aceptada.
type StockOutReceiptDTO struct {
	MedicineID string              `json:"medicine_id"`
	Requested  int                 `json:"requested"`
	Lines      []AllocationLineDTO `json:"lines"`
}

// BatchResponse representación HTTP de un lote.
type BatchResponse struct {
	ID          string    `json:"id"`
	MedicineID  string    `json:"medicine_id"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  string    `json:"expiry_date"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BatchWithMedicineResponse lote + medicamento + clasificación al momento de
// la consulta (la clasificación depende del reloj, no se persiste).
type BatchWithMedicineResponse struct {
	BatchResponse
	MedicineName  string          `json:"medicine_name"`
	GenericName   string          `json:"generic_name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel int             `json:"min_stock_level"`
	Status        string          `json:"status"` // EXPIRED | EXPIRING_SOON | LOW_STOCK | GOOD
}

// BatchListResponse listado de lotes.
type BatchListResponse struct {
	Batches []BatchWithMedicineResponse `json:"batches"`
	Page    PageResponse                `json:"page"`
}

// WriteOffResultDTO resultado de la baja de lotes vencidos.
type WriteOffResultDTO struct {
	BatchesWrittenOff int             `json:"batches_written_off"`
	QuantityLost      int             `json:"quantity_lost"`
	ValueLost         decimal.Decimal `json:"value_lost"`
}
