package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine representa un medicamento del catálogo de la farmacia.
// El stock no vive aquí: se maneja por lote en Batch. El core lo referencia
// pero nunca lo muta; el catálogo lo administran los casos de uso CRUD.
type Medicine struct {
	ID            string
	Name          string
	GenericName   string
	Category      string
	Unit          string          // presentación: tableta, ampolla, frasco...
	Price         decimal.Decimal // precio unitario de venta, >= 0
	MinStockLevel int             // umbral de stock bajo; 0 = usar el default global
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
