// Package audit expone la lectura de la bitácora de stock. Solo consultas;
// la escritura vive en el paquete stock, dentro de sus transacciones.
package audit

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// UseCase consultas de bitácora por medicamento, lote, tipo y rango de fechas.
type UseCase struct {
	eventRepo repository.StockEventRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(eventRepo repository.StockEventRepository) *UseCase {
	return &UseCase{eventRepo: eventRepo}
}

// QueryInput filtros de la consulta de bitácora.
type QueryInput struct {
	MedicineID string
	BatchID    string
	Kind       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// List devuelve la bitácora filtrada, más reciente primero.
func (uc *UseCase) List(ctx context.Context, in QueryInput) (*dto.StockLogListResponse, error) {
	switch in.Kind {
	case "", entity.EventStockIn, entity.EventStockOut, entity.EventExpired:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Limit <= 0 {
		in.Limit = 50
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	rows, err := uc.eventRepo.List(repository.StockEventFilter{
		MedicineID: in.MedicineID,
		BatchID:    in.BatchID,
		Kind:       in.Kind,
		From:       in.From,
		To:         in.To,
	}, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.StockLogListResponse{Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: len(rows)}}
	for _, row := range rows {
		e := row.Event
		resp.Logs = append(resp.Logs, dto.StockLogDTO{
			ID:           e.ID,
			Kind:         e.Kind,
			MedicineID:   e.MedicineID,
			MedicineName: row.MedicineName,
			BatchID:      e.BatchID,
			BatchNumber:  row.BatchNumber,
			Quantity:     e.Quantity,
			UnitPrice:    e.UnitPrice,
			TotalValue:   e.TotalValue,
			PerformedBy: dto.PerformedByDTO{
				ID:   e.PerformedBy,
				Name: row.PerformedName,
				Role: row.PerformedRole,
			},
			CreatedAt: e.CreatedAt,
		})
	}
	return resp, nil
}
