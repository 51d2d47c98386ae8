// Package pharmacy contiene los servicios de dominio puros del motor de
// lotes: clasificación por vencimiento y planificación de asignación FEFO.
// Ninguna función de este paquete lee el reloj ni muta estado; `now` siempre
// llega como parámetro para que los tests sean deterministas.
package pharmacy

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// BatchStatus es la clasificación de un lote en un instante dado.
type BatchStatus string

const (
	StatusExpired      BatchStatus = "EXPIRED"
	StatusExpiringSoon BatchStatus = "EXPIRING_SOON"
	StatusLowStock     BatchStatus = "LOW_STOCK"
	StatusGood         BatchStatus = "GOOD"
)

const (
	// ExpiringSoonDays define la ventana "por vencer": [hoy, hoy+30 días],
	// intervalo cerrado a granularidad de día calendario.
	ExpiringSoonDays = 30

	// DefaultMinStockLevel aplica cuando el medicamento no define umbral.
	DefaultMinStockLevel = 10
)

// Classify evalúa el estado de un lote en orden estricto de precedencia:
// EXPIRED > EXPIRING_SOON > LOW_STOCK > GOOD. El orden importa: un lote por
// vencer y además con stock bajo clasifica EXPIRING_SOON, porque la pérdida
// inminente es la señal más urgente.
func Classify(batch *entity.Batch, minStockLevel int, now time.Time) BatchStatus {
	today := truncateToDay(now)
	expiry := truncateToDay(batch.ExpiryDate)

	if !expiry.After(today) {
		return StatusExpired
	}
	if !expiry.After(today.AddDate(0, 0, ExpiringSoonDays)) {
		return StatusExpiringSoon
	}
	if minStockLevel <= 0 {
		minStockLevel = DefaultMinStockLevel
	}
	if batch.Quantity < minStockLevel {
		return StatusLowStock
	}
	return StatusGood
}

// IsExpired indica si el lote está vencido a granularidad de día.
// Un lote que vence hoy ya no es emitible.
func IsExpired(batch *entity.Batch, now time.Time) bool {
	return !truncateToDay(batch.ExpiryDate).After(truncateToDay(now))
}

// truncateToDay reduce un instante a su día calendario, normalizado a UTC.
// La normalización importa: el DATE de la DB llega en UTC y el reloj del
// servidor puede ir en otro offset; truncar cada uno en su propia zona y
// comparar como instantes desfasaría la comparación hasta un día entero.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
