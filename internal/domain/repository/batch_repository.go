package repository

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// BatchWithMedicine es la fila lote + medicamento que consumen los listados
// y la agregación (la clasificación necesita precio y umbral del medicamento).
type BatchWithMedicine struct {
	Batch    entity.Batch
	Medicine entity.Medicine
}

// BatchRepository define el puerto de persistencia para lotes.
// Los decrementos de cantidad ocurren solo dentro de la transacción del
// asignador (ver stock.TxRunner); fuera de ella el puerto es de lectura.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	GetByMedicineAndNumber(medicineID, batchNumber string) (*entity.Batch, error)
	// ListByMedicine devuelve todos los lotes del medicamento, incluidos los
	// de cantidad cero, ordenados por vencimiento ASC y número de lote ASC.
	ListByMedicine(medicineID string) ([]*entity.Batch, error)
	// ListByMedicineForUpdate bloquea las filas de lotes del medicamento
	// (SELECT FOR UPDATE): serializa las asignaciones por medicamento.
	ListByMedicineForUpdate(medicineID string) ([]*entity.Batch, error)
	// ListExpiredForUpdate bloquea los lotes con existencias cuya fecha de
	// vencimiento es anterior o igual al día dado, para la baja de vencidos.
	ListExpiredForUpdate(day time.Time) ([]*entity.Batch, error)
	ListWithMedicine(limit, offset int) ([]*BatchWithMedicine, error)
	UpdateQuantity(batchID string, quantity int) error
}
