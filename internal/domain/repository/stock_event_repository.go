package repository

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// StockEventFilter filtros opcionales para consultar la bitácora de stock.
// Los campos vacíos/nil no filtran.
type StockEventFilter struct {
	MedicineID string
	BatchID    string
	Kind       string // STOCK_IN | STOCK_OUT | EXPIRED
	From       *time.Time
	To         *time.Time
}

// StockEventWithRefs es la fila de auditoría enriquecida con los nombres que
// muestra la consola (medicamento, lote y actor).
type StockEventWithRefs struct {
	Event         entity.StockEvent
	MedicineName  string
	BatchNumber   string
	PerformedName string
	PerformedRole string
}

// StockEventRepository define el puerto append-only de la bitácora.
// Create solo se invoca dentro de las transacciones de los casos de uso de
// stock; no existen Update ni Delete.
type StockEventRepository interface {
	Create(event *entity.StockEvent) error
	List(filter StockEventFilter, limit, offset int) ([]*StockEventWithRefs, error)
}
