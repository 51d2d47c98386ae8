package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

// StockEventRepo implementación append-only de la bitácora sobre PostgreSQL
// (usable con pool o tx). No expone Update ni Delete: los eventos son
// inmutables por contrato.
type StockEventRepo struct {
	q Querier
}

// NewStockEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEventRepository(q Querier) *StockEventRepo {
	return &StockEventRepo{q: q}
}

// Create persiste un evento de stock. Rechaza cantidades no positivas: la
// dirección la indica Kind, la magnitud siempre es > 0.
func (r *StockEventRepo) Create(e *entity.StockEvent) error {
	if e.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO stock_events (id, kind, medicine_id, batch_id, quantity, unit_price, total_value, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Kind, e.MedicineID, e.BatchID, e.Quantity, e.UnitPrice, e.TotalValue,
		e.PerformedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock event: %w", err)
	}
	return nil
}

// List devuelve la bitácora filtrada con los nombres de medicamento, lote y
// actor, más reciente primero.
func (r *StockEventRepo) List(filter repository.StockEventFilter, limit, offset int) ([]*repository.StockEventWithRefs, error) {
	query := `
		SELECT e.id, e.kind, e.medicine_id, e.batch_id, e.quantity, e.unit_price, e.total_value,
		       e.performed_by, e.created_at,
		       m.name, b.batch_number, COALESCE(u.name, ''), COALESCE(u.role, '')
		FROM stock_events e
		JOIN medicines m ON m.id = e.medicine_id
		JOIN batches   b ON b.id = e.batch_id
		LEFT JOIN users u ON u.id = e.performed_by
		WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.MedicineID != "" {
		query += fmt.Sprintf(" AND e.medicine_id = $%d", pos)
		args = append(args, filter.MedicineID)
		pos++
	}
	if filter.BatchID != "" {
		query += fmt.Sprintf(" AND e.batch_id = $%d", pos)
		args = append(args, filter.BatchID)
		pos++
	}
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND e.kind = $%d", pos)
		args = append(args, filter.Kind)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND e.created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND e.created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY e.created_at DESC, e.id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock events: %w", err)
	}
	defer rows.Close()
	var list []*repository.StockEventWithRefs
	for rows.Next() {
		var row repository.StockEventWithRefs
		if err := rows.Scan(
			&row.Event.ID, &row.Event.Kind, &row.Event.MedicineID, &row.Event.BatchID,
			&row.Event.Quantity, &row.Event.UnitPrice, &row.Event.TotalValue,
			&row.Event.PerformedBy, &row.Event.CreatedAt,
			&row.MedicineName, &row.BatchNumber, &row.PerformedName, &row.PerformedRole,
		); err != nil {
			return nil, fmt.Errorf("scan stock event: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}
