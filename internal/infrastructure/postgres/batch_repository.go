package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = "id, medicine_id, batch_number, quantity, expiry_date, created_at, updated_at"

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
// El orden canónico de los listados es vencimiento ASC, número de lote ASC:
// el mismo orden que usa el plan FEFO.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo. La constraint única (medicine_id, batch_number)
// respalda la verificación de duplicados del caso de uso.
func (r *BatchRepo) Create(b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, medicine_id, batch_number, quantity, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.MedicineID, b.BatchNumber, b.Quantity, b.ExpiryDate, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBatch
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByMedicineAndNumber obtiene un lote por medicamento y número.
func (r *BatchRepo) GetByMedicineAndNumber(medicineID, batchNumber string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE medicine_id = $1 AND batch_number = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, medicineID, batchNumber))
}

// ListByMedicine devuelve todos los lotes del medicamento (incluidos los de
// cantidad cero), vencimiento ASC y número de lote ASC.
func (r *BatchRepo) ListByMedicine(medicineID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches WHERE medicine_id = $1
		ORDER BY expiry_date ASC, batch_number ASC`
	return r.list(query, medicineID)
}

// ListByMedicineForUpdate igual que ListByMedicine pero bloqueando las filas
// (SELECT FOR UPDATE). Dos salidas concurrentes del mismo medicamento se
// serializan aquí: la segunda espera el Commit/Rollback de la primera y ve
// las cantidades ya actualizadas.
func (r *BatchRepo) ListByMedicineForUpdate(medicineID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches WHERE medicine_id = $1
		ORDER BY expiry_date ASC, batch_number ASC
		FOR UPDATE`
	return r.list(query, medicineID)
}

// ListExpiredForUpdate bloquea los lotes con existencias vencidos al día dado.
func (r *BatchRepo) ListExpiredForUpdate(day time.Time) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches WHERE quantity > 0 AND expiry_date <= $1
		ORDER BY expiry_date ASC, batch_number ASC
		FOR UPDATE`
	return r.list(query, day)
}

// ListWithMedicine devuelve lotes con su medicamento (JOIN), para listados y
// agregación. limit <= 0 desactiva la paginación (snapshot completo).
func (r *BatchRepo) ListWithMedicine(limit, offset int) ([]*repository.BatchWithMedicine, error) {
	query := `
		SELECT b.id, b.medicine_id, b.batch_number, b.quantity, b.expiry_date, b.created_at, b.updated_at,
		       m.id, m.name, m.generic_name, m.category, m.unit, m.price, m.min_stock_level, m.created_at, m.updated_at
		FROM batches b
		JOIN medicines m ON m.id = b.medicine_id
		ORDER BY b.expiry_date ASC, b.batch_number ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches with medicine: %w", err)
	}
	defer rows.Close()
	var list []*repository.BatchWithMedicine
	for rows.Next() {
		var row repository.BatchWithMedicine
		if err := rows.Scan(
			&row.Batch.ID, &row.Batch.MedicineID, &row.Batch.BatchNumber, &row.Batch.Quantity,
			&row.Batch.ExpiryDate, &row.Batch.CreatedAt, &row.Batch.UpdatedAt,
			&row.Medicine.ID, &row.Medicine.Name, &row.Medicine.GenericName, &row.Medicine.Category,
			&row.Medicine.Unit, &row.Medicine.Price, &row.Medicine.MinStockLevel,
			&row.Medicine.CreatedAt, &row.Medicine.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch with medicine: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// UpdateQuantity fija la cantidad de un lote. La constraint CHECK (quantity >= 0)
// de la tabla respalda el invariante del dominio.
func (r *BatchRepo) UpdateQuantity(batchID string, quantity int) error {
	query := `UPDATE batches SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, batchID, quantity)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) list(query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.MedicineID, &b.BatchNumber, &b.Quantity,
			&b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *BatchRepo) scanOne(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.MedicineID, &b.BatchNumber, &b.Quantity,
		&b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}
