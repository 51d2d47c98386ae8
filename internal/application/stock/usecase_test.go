package stock_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/stock"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pharmacy"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// El TxRunner fake entrega los mismos repos en memoria al callback; no hay
// rollback real, pero como todo rechazo del motor ocurre antes de cualquier
// mutación (plan primero, aplicación después), los tests verifican exactamente
// esa propiedad: tras un error no debe haber cambiado nada.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	medicines map[string]*entity.Medicine
	batches   map[string]*entity.Batch
	events    []*entity.StockEvent
}

func newMemStore() *memStore {
	return &memStore{
		medicines: make(map[string]*entity.Medicine),
		batches:   make(map[string]*entity.Batch),
	}
}

type memMedicineRepo struct{ s *memStore }

func (r *memMedicineRepo) Create(m *entity.Medicine) error { r.s.medicines[m.ID] = m; return nil }
func (r *memMedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	return r.s.medicines[id], nil
}
func (r *memMedicineRepo) GetByName(name string) (*entity.Medicine, error) {
	for _, m := range r.s.medicines {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, nil
}
func (r *memMedicineRepo) Update(m *entity.Medicine) error { r.s.medicines[m.ID] = m; return nil }
func (r *memMedicineRepo) List(search string, limit, offset int) ([]*entity.Medicine, error) {
	out := make([]*entity.Medicine, 0, len(r.s.medicines))
	for _, m := range r.s.medicines {
		out = append(out, m)
	}
	return out, nil
}
func (r *memMedicineRepo) Delete(id string) error { delete(r.s.medicines, id); return nil }

type memBatchRepo struct{ s *memStore }

func (r *memBatchRepo) Create(b *entity.Batch) error {
	copied := *b
	r.s.batches[b.ID] = &copied
	return nil
}
func (r *memBatchRepo) GetByID(id string) (*entity.Batch, error) { return r.s.batches[id], nil }
func (r *memBatchRepo) GetByMedicineAndNumber(medicineID, batchNumber string) (*entity.Batch, error) {
	for _, b := range r.s.batches {
		if b.MedicineID == medicineID && b.BatchNumber == batchNumber {
			return b, nil
		}
	}
	return nil, nil
}
func (r *memBatchRepo) ListByMedicine(medicineID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.MedicineID == medicineID {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate)
		}
		return out[i].BatchNumber < out[j].BatchNumber
	})
	return out, nil
}
func (r *memBatchRepo) ListByMedicineForUpdate(medicineID string) ([]*entity.Batch, error) {
	return r.ListByMedicine(medicineID)
}
func (r *memBatchRepo) ListExpiredForUpdate(day time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		probe := *b
		if b.Quantity > 0 && pharmacy.IsExpired(&probe, day) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BatchNumber < out[j].BatchNumber })
	return out, nil
}
func (r *memBatchRepo) ListWithMedicine(limit, offset int) ([]*repository.BatchWithMedicine, error) {
	var out []*repository.BatchWithMedicine
	for _, b := range r.s.batches {
		m := r.s.medicines[b.MedicineID]
		out = append(out, &repository.BatchWithMedicine{Batch: *b, Medicine: *m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Batch.BatchNumber < out[j].Batch.BatchNumber })
	return out, nil
}
func (r *memBatchRepo) UpdateQuantity(batchID string, quantity int) error {
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Quantity = quantity
	return nil
}

type memEventRepo struct{ s *memStore }

func (r *memEventRepo) Create(e *entity.StockEvent) error {
	if e.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	r.s.events = append(r.s.events, e)
	return nil
}
func (r *memEventRepo) List(filter repository.StockEventFilter, limit, offset int) ([]*repository.StockEventWithRefs, error) {
	var out []*repository.StockEventWithRefs
	for _, e := range r.s.events {
		if filter.MedicineID != "" && e.MedicineID != filter.MedicineID {
			continue
		}
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
		out = append(out, &repository.StockEventWithRefs{Event: *e})
	}
	return out, nil
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	eventRepo repository.StockEventRepository,
	medicineRepo repository.MedicineRepository,
) error) error {
	return fn(&memBatchRepo{s: t.s}, &memEventRepo{s: t.s}, &memMedicineRepo{s: t.s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

const (
	medID   = "med-amoxicilina"
	actorID = "user-quimico-1"
)

func newTestUseCase(t *testing.T) (*stock.UseCase, *memStore) {
	t.Helper()
	s := newMemStore()
	s.medicines[medID] = &entity.Medicine{
		ID:            medID,
		Name:          "Amoxicilina 500mg",
		Category:      "antibiotico",
		Price:         decimal.NewFromFloat(2.50),
		MinStockLevel: 10,
	}
	uc := stock.NewUseCase(&memTxRunner{s: s}, &memMedicineRepo{s: s}, &memBatchRepo{s: s},
		func() time.Time { return fixedNow })
	return uc, s
}

func mustStockIn(t *testing.T, uc *stock.UseCase, number string, qty, daysFromNow int) *dto.BatchResponse {
	t.Helper()
	resp, err := uc.StockIn(context.Background(), actorID, dto.StockInRequest{
		MedicineID:  medID,
		BatchNumber: number,
		Quantity:    qty,
		ExpiryDate:  fixedNow.AddDate(0, 0, daysFromNow).Format("2006-01-02"),
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// StockIn
// ──────────────────────────────────────────────────────────────────────────────

func TestStockIn_CreaLoteYUnEvento(t *testing.T) {
	uc, s := newTestUseCase(t)

	resp := mustStockIn(t, uc, "L-001", 40, 60)

	assert.Equal(t, 40, resp.Quantity)
	require.Len(t, s.events, 1, "exactamente un evento STOCK_IN por entrada")

	e := s.events[0]
	assert.Equal(t, entity.EventStockIn, e.Kind)
	assert.Equal(t, 40, e.Quantity)
	assert.Equal(t, actorID, e.PerformedBy)
	assert.True(t, e.UnitPrice.Equal(decimal.NewFromFloat(2.50)),
		"el evento captura el precio vigente del medicamento")
	assert.True(t, e.TotalValue.Equal(decimal.NewFromFloat(100.0)),
		"total = precio x cantidad")
}

func TestStockIn_RechazaVencimientoNoFuturo(t *testing.T) {
	uc, s := newTestUseCase(t)

	for _, days := range []int{0, -1} {
		_, err := uc.StockIn(context.Background(), actorID, dto.StockInRequest{
			MedicineID:  medID,
			BatchNumber: "L-001",
			Quantity:    10,
			ExpiryDate:  fixedNow.AddDate(0, 0, days).Format("2006-01-02"),
		})
		assert.Equal(t, domain.ErrExpiryNotFuture, err,
			"vencer hoy o antes no es admisible como entrada")
	}
	assert.Empty(t, s.batches)
	assert.Empty(t, s.events)
}

func TestStockIn_RechazaLoteDuplicado(t *testing.T) {
	uc, s := newTestUseCase(t)
	mustStockIn(t, uc, "L-001", 10, 60)

	_, err := uc.StockIn(context.Background(), actorID, dto.StockInRequest{
		MedicineID:  medID,
		BatchNumber: "L-001",
		Quantity:    5,
		ExpiryDate:  fixedNow.AddDate(0, 0, 90).Format("2006-01-02"),
	})
	assert.Equal(t, domain.ErrDuplicateBatch, err)
	assert.Len(t, s.batches, 1)
	assert.Len(t, s.events, 1, "el intento duplicado no deja eventos")
}

func TestStockIn_RechazaMedicamentoInexistente(t *testing.T) {
	uc, _ := newTestUseCase(t)

	_, err := uc.StockIn(context.Background(), actorID, dto.StockInRequest{
		MedicineID:  "med-fantasma",
		BatchNumber: "L-001",
		Quantity:    10,
		ExpiryDate:  fixedNow.AddDate(0, 0, 60).Format("2006-01-02"),
	})
	assert.Equal(t, domain.ErrMedicineNotFound, err)
}

func TestStockIn_RechazaCantidadNoPositiva(t *testing.T) {
	uc, _ := newTestUseCase(t)

	for _, qty := range []int{0, -5} {
		_, err := uc.StockIn(context.Background(), actorID, dto.StockInRequest{
			MedicineID:  medID,
			BatchNumber: "L-001",
			Quantity:    qty,
			ExpiryDate:  fixedNow.AddDate(0, 0, 60).Format("2006-01-02"),
		})
		assert.Equal(t, domain.ErrInvalidInput, err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// StockOut
// ──────────────────────────────────────────────────────────────────────────────

func TestStockOut_DrenaEnOrdenFEFO(t *testing.T) {
	// B1: 5 unidades, vence en 2 días. B2: 10 unidades, vence en 40 días.
	// Salida de 8: B1 queda en 0, B2 queda en 7, dos eventos STOCK_OUT.
	uc, s := newTestUseCase(t)
	b1 := mustStockIn(t, uc, "L-001", 5, 2)
	b2 := mustStockIn(t, uc, "L-002", 10, 40)

	receipt, err := uc.StockOut(context.Background(), actorID, dto.StockOutRequest{
		MedicineID: medID,
		Quantity:   8,
	})
	require.NoError(t, err)

	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, b1.ID, receipt.Lines[0].BatchID)
	assert.Equal(t, 5, receipt.Lines[0].Quantity)
	assert.Equal(t, b2.ID, receipt.Lines[1].BatchID)
	assert.Equal(t, 3, receipt.Lines[1].Quantity)

	assert.Equal(t, 0, s.batches[b1.ID].Quantity, "el lote más próximo a vencer se drena primero")
	assert.Equal(t, 7, s.batches[b2.ID].Quantity)

	var outs []*entity.StockEvent
	for _, e := range s.events {
		if e.Kind == entity.EventStockOut {
			outs = append(outs, e)
		}
	}
	require.Len(t, outs, 2, "un evento STOCK_OUT por lote tocado")
	assert.Equal(t, 5, outs[0].Quantity)
	assert.Equal(t, 3, outs[1].Quantity)
}

func TestStockOut_InsuficienciaNoMutaNada(t *testing.T) {
	// Total elegible 15, se piden 20: rechazo completo, cantidades intactas
	// y cero eventos STOCK_OUT.
	uc, s := newTestUseCase(t)
	b1 := mustStockIn(t, uc, "L-001", 5, 2)
	b2 := mustStockIn(t, uc, "L-002", 10, 40)

	_, err := uc.StockOut(context.Background(), actorID, dto.StockOutRequest{
		MedicineID: medID,
		Quantity:   20,
	})
	assert.Equal(t, domain.ErrInsufficientStock, err)

	assert.Equal(t, 5, s.batches[b1.ID].Quantity)
	assert.Equal(t, 10, s.batches[b2.ID].Quantity)
	for _, e := range s.events {
		assert.NotEqual(t, entity.EventStockOut, e.Kind,
			"un rechazo no debe dejar eventos de salida")
	}
}

func TestStockOut_IgnoraLotesVencidos(t *testing.T) {
	// Un lote vencido con 100 unidades no cuenta para la factibilidad.
	uc, s := newTestUseCase(t)
	expired := mustStockIn(t, uc, "L-VIEJO", 100, 30)
	s.batches[expired.ID].ExpiryDate = fixedNow.AddDate(0, 0, -1)
	vigente := mustStockIn(t, uc, "L-NUEVO", 5, 60)

	_, err := uc.StockOut(context.Background(), actorID, dto.StockOutRequest{
		MedicineID: medID,
		Quantity:   10,
	})
	assert.Equal(t, domain.ErrInsufficientStock, err,
		"las 100 unidades vencidas no son elegibles")

	receipt, err := uc.StockOut(context.Background(), actorID, dto.StockOutRequest{
		MedicineID: medID,
		Quantity:   5,
	})
	require.NoError(t, err)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, vigente.ID, receipt.Lines[0].BatchID)
	assert.Equal(t, 100, s.batches[expired.ID].Quantity, "el vencido queda intacto")
}

func TestStockOut_SinExistenciasElegibles(t *testing.T) {
	uc, _ := newTestUseCase(t)

	_, err := uc.StockOut(context.Background(), actorID, dto.StockOutRequest{
		MedicineID: medID,
		Quantity:   1,
	})
	assert.Equal(t, domain.ErrNoEligibleStock, err)
}

func TestStockOut_CapturaPrecioVigenteEnEventos(t *testing.T) {
	uc, s := newTestUseCase(t)
	mustStockIn(t, uc, "L-001", 10, 60)

	// El precio sube antes de la salida: los eventos STOCK_OUT capturan el
	// precio vigente al momento del evento, no el de la entrada.
	s.medicines[medID].Price = decimal.NewFromFloat(4.00)

	_, err := uc.StockOut(context.Background(), actorID, dto.StockOutRequest{
		MedicineID: medID,
		Quantity:   3,
	})
	require.NoError(t, err)

	last := s.events[len(s.events)-1]
	assert.Equal(t, entity.EventStockOut, last.Kind)
	assert.True(t, last.UnitPrice.Equal(decimal.NewFromFloat(4.00)))
	assert.True(t, last.TotalValue.Equal(decimal.NewFromFloat(12.00)))
}

// ──────────────────────────────────────────────────────────────────────────────
// WriteOffExpired
// ──────────────────────────────────────────────────────────────────────────────

func TestWriteOffExpired_DejaEnCeroYRegistraEventos(t *testing.T) {
	uc, s := newTestUseCase(t)
	vencido1 := mustStockIn(t, uc, "L-001", 8, 30)
	vencido2 := mustStockIn(t, uc, "L-002", 4, 30)
	vigente := mustStockIn(t, uc, "L-003", 20, 90)
	s.batches[vencido1.ID].ExpiryDate = fixedNow.AddDate(0, 0, -10)
	s.batches[vencido2.ID].ExpiryDate = fixedNow.AddDate(0, 0, -1)

	result, err := uc.WriteOffExpired(context.Background(), actorID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.BatchesWrittenOff)
	assert.Equal(t, 12, result.QuantityLost)
	assert.True(t, result.ValueLost.Equal(decimal.NewFromFloat(30.0)),
		"12 unidades x 2.50")

	assert.Equal(t, 0, s.batches[vencido1.ID].Quantity)
	assert.Equal(t, 0, s.batches[vencido2.ID].Quantity)
	assert.Equal(t, 20, s.batches[vigente.ID].Quantity, "los vigentes no se tocan")

	var expiredEvents int
	for _, e := range s.events {
		if e.Kind == entity.EventExpired {
			expiredEvents++
		}
	}
	assert.Equal(t, 2, expiredEvents, "un evento EXPIRED por lote dado de baja")
}

func TestWriteOffExpired_EsIdempotente(t *testing.T) {
	uc, s := newTestUseCase(t)
	vencido := mustStockIn(t, uc, "L-001", 8, 30)
	s.batches[vencido.ID].ExpiryDate = fixedNow.AddDate(0, 0, -10)

	first, err := uc.WriteOffExpired(context.Background(), actorID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.BatchesWrittenOff)

	// Segunda pasada: el lote ya está en cero, no hay nada que dar de baja.
	second, err := uc.WriteOffExpired(context.Background(), actorID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.BatchesWrittenOff)
	assert.Equal(t, 0, second.QuantityLost)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestListBatches_IncluyeClasificacion(t *testing.T) {
	uc, s := newTestUseCase(t)
	porVencer := mustStockIn(t, uc, "L-001", 50, 10)
	bueno := mustStockIn(t, uc, "L-002", 50, 90)
	vencido := mustStockIn(t, uc, "L-003", 5, 30)
	s.batches[vencido.ID].ExpiryDate = fixedNow.AddDate(0, 0, -1)

	resp, err := uc.ListBatches(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, resp.Batches, 3)

	statuses := make(map[string]string)
	for _, row := range resp.Batches {
		statuses[row.ID] = row.Status
	}
	assert.Equal(t, "EXPIRING_SOON", statuses[porVencer.ID])
	assert.Equal(t, "GOOD", statuses[bueno.ID])
	assert.Equal(t, "EXPIRED", statuses[vencido.ID])
}

func TestGetBatchesForMedicine_IncluyeLotesEnCero(t *testing.T) {
	uc, _ := newTestUseCase(t)
	mustStockIn(t, uc, "L-001", 5, 10)
	mustStockIn(t, uc, "L-002", 10, 40)

	_, err := uc.StockOut(context.Background(), actorID, dto.StockOutRequest{
		MedicineID: medID,
		Quantity:   5,
	})
	require.NoError(t, err)

	batches, err := uc.GetBatchesForMedicine(context.Background(), medID)
	require.NoError(t, err)
	require.Len(t, batches, 2, "los lotes drenados siguen visibles")
	assert.Equal(t, 0, batches[0].Quantity)
	assert.Equal(t, 10, batches[1].Quantity)
}
