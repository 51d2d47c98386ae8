// Package stock implementa el motor de lotes: entradas, salidas FEFO y baja
// de vencidos. Es el único camino de escritura sobre cantidades de lote y
// sobre la bitácora de eventos.
package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pharmacy"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// UseCase casos de uso del motor de lotes. Las mutaciones corren bajo
// TxRunner con bloqueo de filas (SELECT FOR UPDATE) por medicamento, de modo
// que dos salidas concurrentes del mismo medicamento nunca pasan ambas la
// verificación de factibilidad sobre totales desactualizados.
type UseCase struct {
	txRunner     TxRunner
	medicineRepo repository.MedicineRepository
	batchRepo    repository.BatchRepository
	now          func() time.Time
}

// NewUseCase construye el caso de uso. nowFn permite fijar el reloj en tests;
// nil usa time.Now.
func NewUseCase(txRunner TxRunner, medicineRepo repository.MedicineRepository, batchRepo repository.BatchRepository, nowFn func() time.Time) *UseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &UseCase{txRunner: txRunner, medicineRepo: medicineRepo, batchRepo: batchRepo, now: nowFn}
}

// expiryLayout formato de fecha de vencimiento en la API.
const expiryLayout = "2006-01-02"

// StockIn crea un lote nuevo y registra su evento STOCK_IN con la cantidad
// completa y el precio vigente del medicamento.
//
// Rechaza sin mutar nada: cantidad <= 0, vencimiento no estrictamente
// posterior a hoy (día calendario) y número de lote duplicado por medicamento.
func (uc *UseCase) StockIn(ctx context.Context, actorID string, in dto.StockInRequest) (*dto.BatchResponse, error) {
	if in.MedicineID == "" || in.BatchNumber == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	expiry, err := time.Parse(expiryLayout, in.ExpiryDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	probe := &entity.Batch{ExpiryDate: expiry}
	if pharmacy.IsExpired(probe, now) {
		return nil, domain.ErrExpiryNotFuture
	}

	medicine, err := uc.medicineRepo.GetByID(in.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrMedicineNotFound
	}

	batch := &entity.Batch{
		ID:          uuid.New().String(),
		MedicineID:  in.MedicineID,
		BatchNumber: in.BatchNumber,
		Quantity:    in.Quantity,
		ExpiryDate:  expiry,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		eventRepo repository.StockEventRepository,
		_ repository.MedicineRepository,
	) error {
		existing, err := batchRepo.GetByMedicineAndNumber(in.MedicineID, in.BatchNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateBatch
		}
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		return eventRepo.Create(newEvent(entity.EventStockIn, medicine, batch.ID, in.Quantity, actorID, now))
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// StockOut satisface una salida consumiendo lotes elegibles en orden FEFO.
//
// Dos fases dentro de una misma transacción: primero se bloquea y lee el
// snapshot de lotes del medicamento (serialización por medicamento), se
// calcula el plan completo con pharmacy.PlanAllocation, y solo si el total
// elegible cubre lo pedido se aplican los decrementos, un evento STOCK_OUT
// por lote tocado. Cualquier rechazo deja todas las cantidades intactas y
// cero eventos.
func (uc *UseCase) StockOut(ctx context.Context, actorID string, in dto.StockOutRequest) (*dto.StockOutReceiptDTO, error) {
	if in.MedicineID == "" || actorID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	medicine, err := uc.medicineRepo.GetByID(in.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrMedicineNotFound
	}
	now := uc.now()

	var plan []pharmacy.Allocation
	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		eventRepo repository.StockEventRepository,
		_ repository.MedicineRepository,
	) error {
		// Bloquea todas las filas de lotes del medicamento (FOR UPDATE):
		// la factibilidad y la aplicación ven el mismo snapshot.
		batches, err := batchRepo.ListByMedicineForUpdate(in.MedicineID)
		if err != nil {
			return err
		}
		plan, err = pharmacy.PlanAllocation(batches, in.Quantity, now)
		if err != nil {
			return err
		}

		byID := make(map[string]*entity.Batch, len(batches))
		for _, b := range batches {
			byID[b.ID] = b
		}
		for _, line := range plan {
			b := byID[line.BatchID]
			if err := batchRepo.UpdateQuantity(b.ID, b.Quantity-line.Quantity); err != nil {
				return err
			}
			if err := eventRepo.Create(newEvent(entity.EventStockOut, medicine, b.ID, line.Quantity, actorID, now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	receipt := &dto.StockOutReceiptDTO{MedicineID: in.MedicineID, Requested: in.Quantity}
	for _, line := range plan {
		receipt.Lines = append(receipt.Lines, dto.AllocationLineDTO{
			BatchID:     line.BatchID,
			BatchNumber: line.BatchNumber,
			Quantity:    line.Quantity,
		})
	}
	return receipt, nil
}

// WriteOffExpired da de baja las existencias de todos los lotes vencidos:
// deja cada lote en cero y registra un evento EXPIRED con la cantidad
// perdida. Los lotes no se eliminan; persisten para auditoría y reportes.
func (uc *UseCase) WriteOffExpired(ctx context.Context, actorID string) (*dto.WriteOffResultDTO, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	result := &dto.WriteOffResultDTO{ValueLost: decimal.Zero}

	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		eventRepo repository.StockEventRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		expired, err := batchRepo.ListExpiredForUpdate(now)
		if err != nil {
			return err
		}
		for _, b := range expired {
			medicine, err := medicineRepo.GetByID(b.MedicineID)
			if err != nil {
				return err
			}
			if medicine == nil {
				return domain.ErrMedicineNotFound
			}
			if err := batchRepo.UpdateQuantity(b.ID, 0); err != nil {
				return err
			}
			event := newEvent(entity.EventExpired, medicine, b.ID, b.Quantity, actorID, now)
			if err := eventRepo.Create(event); err != nil {
				return err
			}
			result.BatchesWrittenOff++
			result.QuantityLost += b.Quantity
			result.ValueLost = result.ValueLost.Add(event.TotalValue)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBatchesForMedicine devuelve todos los lotes del medicamento, incluidos
// los de cantidad cero, ordenados por vencimiento ASC y número de lote.
func (uc *UseCase) GetBatchesForMedicine(ctx context.Context, medicineID string) ([]dto.BatchResponse, error) {
	medicine, err := uc.medicineRepo.GetByID(medicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrMedicineNotFound
	}
	batches, err := uc.batchRepo.ListByMedicine(medicineID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, *toBatchResponse(b))
	}
	return out, nil
}

// ListBatches lista lotes con su medicamento y la clasificación calculada al
// momento de la consulta.
func (uc *UseCase) ListBatches(ctx context.Context, limit, offset int) (*dto.BatchListResponse, error) {
	rows, err := uc.batchRepo.ListWithMedicine(limit, offset)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	resp := &dto.BatchListResponse{Page: dto.PageResponse{Limit: limit, Offset: offset, Total: len(rows)}}
	for _, row := range rows {
		b := row.Batch
		resp.Batches = append(resp.Batches, dto.BatchWithMedicineResponse{
			BatchResponse: *toBatchResponse(&b),
			MedicineName:  row.Medicine.Name,
			GenericName:   row.Medicine.GenericName,
			Category:      row.Medicine.Category,
			Price:         row.Medicine.Price,
			MinStockLevel: row.Medicine.MinStockLevel,
			Status:        string(pharmacy.Classify(&b, row.Medicine.MinStockLevel, now)),
		})
	}
	return resp, nil
}

// newEvent arma un StockEvent con el precio del medicamento capturado al
// momento del evento.
func newEvent(kind string, medicine *entity.Medicine, batchID string, quantity int, actorID string, now time.Time) *entity.StockEvent {
	qty := decimal.NewFromInt(int64(quantity))
	return &entity.StockEvent{
		ID:          uuid.New().String(),
		Kind:        kind,
		MedicineID:  medicine.ID,
		BatchID:     batchID,
		Quantity:    quantity,
		UnitPrice:   medicine.Price,
		TotalValue:  medicine.Price.Mul(qty),
		PerformedBy: actorID,
		CreatedAt:   now,
	}
}

func toBatchResponse(b *entity.Batch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:          b.ID,
		MedicineID:  b.MedicineID,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		ExpiryDate:  b.ExpiryDate.Format(expiryLayout),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
