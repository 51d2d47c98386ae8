package pharmacy

import (
	"sort"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Allocation es una línea del plan FEFO: cuánto tomar de qué lote.
type Allocation struct {
	BatchID     string
	BatchNumber string
	Quantity    int
}

// PlanAllocation calcula el plan FEFO sobre un snapshot inmutable de lotes.
// No muta nada: el caller aplica el plan dentro de su transacción, lo que
// permite el diseño en dos fases (factibilidad primero, mutación después).
//
// Reglas:
//  1. Solo participan lotes con existencias y no vencidos al día de hoy.
//  2. Orden ascendente por fecha de vencimiento; empates por número de lote
//     (orden determinista, requerido para tests reproducibles).
//  3. Se consume min(pendiente, lote.Quantity) de cada lote en orden.
//  4. Si el total elegible no cubre lo pedido, se rechaza completo:
//     nunca hay cumplimiento parcial silencioso.
func PlanAllocation(batches []*entity.Batch, requested int, now time.Time) ([]Allocation, error) {
	if requested <= 0 {
		return nil, domain.ErrInvalidInput
	}

	eligible := make([]*entity.Batch, 0, len(batches))
	available := 0
	for _, b := range batches {
		if b.Quantity <= 0 || IsExpired(b, now) {
			continue
		}
		eligible = append(eligible, b)
		available += b.Quantity
	}
	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleStock
	}
	if available < requested {
		return nil, domain.ErrInsufficientStock
	}

	sort.Slice(eligible, func(i, j int) bool {
		ei := truncateToDay(eligible[i].ExpiryDate)
		ej := truncateToDay(eligible[j].ExpiryDate)
		if !ei.Equal(ej) {
			return ei.Before(ej)
		}
		return eligible[i].BatchNumber < eligible[j].BatchNumber
	})

	plan := make([]Allocation, 0, len(eligible))
	remaining := requested
	for _, b := range eligible {
		if remaining == 0 {
			break
		}
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		plan = append(plan, Allocation{BatchID: b.ID, BatchNumber: b.BatchNumber, Quantity: take})
		remaining -= take
	}
	return plan, nil
}
