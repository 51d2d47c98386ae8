package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes de consumo y pérdidas.
// Los valores salen del precio capturado en cada evento (unit_price /
// total_value), no del precio actual del medicamento.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// GetMonthlyUsage agrupa las salidas del período por medicamento, cantidad DESC.
func (r *ReportRepo) GetMonthlyUsage(ctx context.Context, from, to time.Time) ([]repository.UsageResult, error) {
	const query = `
	SELECT
	    m.id,
	    m.name,
	    m.category,
	    COALESCE(SUM(e.quantity),    0) AS quantity,
	    COALESCE(SUM(e.total_value), 0) AS value
	FROM stock_events e
	JOIN medicines m ON m.id = e.medicine_id
	WHERE e.kind = $1
	  AND e.created_at BETWEEN $2 AND $3
	GROUP BY m.id, m.name, m.category
	ORDER BY quantity DESC, m.name ASC`

	return r.queryUsage(ctx, query, entity.EventStockOut, from, to)
}

// GetTopConsumed devuelve los `limit` medicamentos con mayor salida del período.
func (r *ReportRepo) GetTopConsumed(ctx context.Context, from, to time.Time, limit int) ([]repository.UsageResult, error) {
	const query = `
	SELECT
	    m.id,
	    m.name,
	    m.category,
	    COALESCE(SUM(e.quantity),    0) AS quantity,
	    COALESCE(SUM(e.total_value), 0) AS value
	FROM stock_events e
	JOIN medicines m ON m.id = e.medicine_id
	WHERE e.kind = $1
	  AND e.created_at BETWEEN $2 AND $3
	GROUP BY m.id, m.name, m.category
	ORDER BY quantity DESC, m.name ASC
	LIMIT $4`

	return r.queryUsage(ctx, query, entity.EventStockOut, from, to, limit)
}

// GetExpiredWastage devuelve, por lote con vencimiento dentro del rango y ya
// vencido al día `now`, la cantidad perdida: existencias remanentes más lo
// dado de baja vía eventos EXPIRED, valorado al precio capturado en la baja o
// al precio actual para lo aún en estantería.
func (r *ReportRepo) GetExpiredWastage(ctx context.Context, from, to, now time.Time) ([]repository.WastageResult, error) {
	const query = `
	SELECT
	    b.id,
	    b.batch_number,
	    m.id,
	    m.name,
	    m.category,
	    b.expiry_date,
	    b.quantity + COALESCE(w.qty, 0)                          AS quantity_lost,
	    b.quantity * m.price + COALESCE(w.value, 0)              AS value_lost
	FROM batches b
	JOIN medicines m ON m.id = b.medicine_id
	LEFT JOIN (
	    SELECT batch_id, SUM(quantity) AS qty, SUM(total_value) AS value
	    FROM stock_events
	    WHERE kind = $1
	    GROUP BY batch_id
	) w ON w.batch_id = b.id
	WHERE b.expiry_date BETWEEN $2 AND $3
	  AND b.expiry_date <= $4
	  AND (b.quantity > 0 OR w.qty > 0)
	ORDER BY b.expiry_date ASC, b.batch_number ASC`

	rows, err := r.pool.Query(ctx, query, entity.EventExpired, from, to, now)
	if err != nil {
		return nil, fmt.Errorf("reports.GetExpiredWastage: %w", err)
	}
	defer rows.Close()

	var results []repository.WastageResult
	for rows.Next() {
		var row repository.WastageResult
		if err := rows.Scan(
			&row.BatchID,
			&row.BatchNumber,
			&row.MedicineID,
			&row.MedicineName,
			&row.Category,
			&row.ExpiryDate,
			&row.Quantity,
			&row.ValueLost,
		); err != nil {
			return nil, fmt.Errorf("reports.GetExpiredWastage scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *ReportRepo) queryUsage(ctx context.Context, query string, args ...any) ([]repository.UsageResult, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports usage query: %w", err)
	}
	defer rows.Close()

	var results []repository.UsageResult
	for rows.Next() {
		var row repository.UsageResult
		if err := rows.Scan(
			&row.MedicineID,
			&row.MedicineName,
			&row.Category,
			&row.Quantity,
			&row.Value,
		); err != nil {
			return nil, fmt.Errorf("reports usage scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
