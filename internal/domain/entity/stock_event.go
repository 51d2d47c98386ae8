package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento de stock.
const (
	EventStockIn  = "STOCK_IN"  // entrada por creación de lote
	EventStockOut = "STOCK_OUT" // salida asignada por FEFO
	EventExpired  = "EXPIRED"   // baja de existencias vencidas
)

// StockEvent es el registro inmutable de auditoría de cada mutación de
// existencias. Se crea exactamente una vez por mutación del ledger y nunca se
// edita ni se borra. Quantity es siempre magnitud positiva; Kind indica la
// dirección. UnitPrice y TotalValue capturan el precio del medicamento al
// momento del evento (los reportes históricos no dependen del precio actual).
type StockEvent struct {
	ID          string
	Kind        string // STOCK_IN | STOCK_OUT | EXPIRED
	MedicineID  string
	BatchID     string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalValue  decimal.Decimal
	PerformedBy string // UserID del actor
	CreatedAt   time.Time
}
