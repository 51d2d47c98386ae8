package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// UsageResult consumo agregado de un medicamento (eventos STOCK_OUT).
// El valor usa el precio capturado en cada evento, no el precio actual.
type UsageResult struct {
	MedicineID   string
	MedicineName string
	Category     string
	Quantity     int64
	Value        decimal.Decimal
}

// WastageResult pérdida por vencimiento de un lote: existencias remanentes
// más lo ya dado de baja vía eventos EXPIRED.
type WastageResult struct {
	BatchID      string
	BatchNumber  string
	MedicineID   string
	MedicineName string
	Category     string
	ExpiryDate   time.Time
	Quantity     int64
	ValueLost    decimal.Decimal
}

// ReportRepository define las consultas de lectura para reportes que se
// resuelven mejor en SQL (agregaciones sobre la bitácora). Las
// implementaciones son read-only.
type ReportRepository interface {
	// GetMonthlyUsage agrupa los STOCK_OUT del rango por medicamento,
	// sumando cantidad y valor histórico, ordenado por cantidad DESC.
	GetMonthlyUsage(ctx context.Context, from, to time.Time) ([]UsageResult, error)

	// GetTopConsumed devuelve los `limit` medicamentos con mayor salida en
	// el período.
	GetTopConsumed(ctx context.Context, from, to time.Time, limit int) ([]UsageResult, error)

	// GetExpiredWastage devuelve, por lote vencido dentro del rango de
	// fechas de vencimiento, la cantidad y el valor perdidos.
	GetExpiredWastage(ctx context.Context, from, to, now time.Time) ([]WastageResult, error)
}
