package entity

import "time"

// Batch representa un lote discreto de un medicamento con su propia cantidad
// y fecha de vencimiento. La cantidad nunca baja de cero y solo la decrementa
// el asignador FEFO; los lotes en cero no se eliminan (quedan para auditoría
// y reportes).
type Batch struct {
	ID          string
	MedicineID  string
	BatchNumber string    // único por medicamento
	Quantity    int       // existencias actuales, >= 0
	ExpiryDate  time.Time // fecha calendario; se compara a granularidad de día
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
