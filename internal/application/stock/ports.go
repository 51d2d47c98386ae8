package stock

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad todo-o-nada del motor
// de lotes: o se aplica el plan completo y su bitácora, o no se muta nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		eventRepo repository.StockEventRepository,
		medicineRepo repository.MedicineRepository,
	) error) error
}
