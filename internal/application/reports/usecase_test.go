package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/reports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: el dashboard solo necesita ListWithMedicine; los reportes SQL se
// stubean con resultados fijos.
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

type stubBatchRepo struct {
	repository.BatchRepository // los métodos no usados entran en pánico si se llaman

	rows []*repository.BatchWithMedicine
}

func (r *stubBatchRepo) ListWithMedicine(limit, offset int) ([]*repository.BatchWithMedicine, error) {
	return r.rows, nil
}

type stubReportRepo struct {
	usage   []repository.UsageResult
	wastage []repository.WastageResult
}

func (r *stubReportRepo) GetMonthlyUsage(ctx context.Context, from, to time.Time) ([]repository.UsageResult, error) {
	return r.usage, nil
}
func (r *stubReportRepo) GetTopConsumed(ctx context.Context, from, to time.Time, limit int) ([]repository.UsageResult, error) {
	if limit < len(r.usage) {
		return r.usage[:limit], nil
	}
	return r.usage, nil
}
func (r *stubReportRepo) GetExpiredWastage(ctx context.Context, from, to, now time.Time) ([]repository.WastageResult, error) {
	return r.wastage, nil
}

func row(batchID, number, medID, medName, category string, qty, daysFromNow int, price float64, minStock int) *repository.BatchWithMedicine {
	return &repository.BatchWithMedicine{
		Batch: entity.Batch{
			ID:          batchID,
			MedicineID:  medID,
			BatchNumber: number,
			Quantity:    qty,
			ExpiryDate:  fixedNow.AddDate(0, 0, daysFromNow),
		},
		Medicine: entity.Medicine{
			ID:            medID,
			Name:          medName,
			Category:      category,
			Price:         decimal.NewFromFloat(price),
			MinStockLevel: minStock,
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// DashboardStats
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboardStats_ClasificaYSuma(t *testing.T) {
	batchRepo := &stubBatchRepo{rows: []*repository.BatchWithMedicine{
		row("b-1", "L-001", "m-1", "Amoxicilina", "antibiotico", 50, -1, 2.0, 10),  // EXPIRED
		row("b-2", "L-002", "m-1", "Amoxicilina", "antibiotico", 30, 10, 2.0, 10),  // EXPIRING_SOON
		row("b-3", "L-003", "m-2", "Ibuprofeno", "analgesico", 5, 90, 1.5, 10),     // LOW_STOCK
		row("b-4", "L-004", "m-2", "Ibuprofeno", "analgesico", 100, 120, 1.5, 10),  // GOOD
	}}
	uc := reports.NewUseCase(batchRepo, &stubReportRepo{}, func() time.Time { return fixedNow })

	stats, err := uc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalMedicines)
	assert.Equal(t, 4, stats.TotalBatches)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.ExpiringSoon)
	assert.Equal(t, 1, stats.LowStock)

	// Valor: todos los lotes tienen existencias, incluido el vencido.
	// 50*2 + 30*2 + 5*1.5 + 100*1.5 = 317.50
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromFloat(317.50)),
		"valor total %s", stats.TotalValue)

	require.Len(t, stats.ExpiringBatches, 1)
	assert.Equal(t, "b-2", stats.ExpiringBatches[0].BatchID)
	assert.Equal(t, 10, stats.ExpiringBatches[0].DaysLeft)

	require.Len(t, stats.Categories, 2)
	assert.Equal(t, "analgesico", stats.Categories[0].Category, "categorías en orden alfabético")
	assert.Equal(t, 2, stats.Categories[0].BatchCount)
	assert.True(t, stats.Categories[0].Value.Equal(decimal.NewFromFloat(157.50)))
}

func TestDashboardStats_TopExpiringRecortaACinco(t *testing.T) {
	var rows []*repository.BatchWithMedicine
	for i := 1; i <= 7; i++ {
		rows = append(rows, row("b-"+string(rune('0'+i)), "L-00"+string(rune('0'+i)),
			"m-1", "Amoxicilina", "antibiotico", 10, i, 2.0, 5))
	}
	uc := reports.NewUseCase(&stubBatchRepo{rows: rows}, &stubReportRepo{},
		func() time.Time { return fixedNow })

	stats, err := uc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, stats.ExpiringSoon)
	require.Len(t, stats.ExpiringBatches, 5, "el widget muestra solo los 5 más urgentes")
	assert.Equal(t, 1, stats.ExpiringBatches[0].DaysLeft)
	assert.Equal(t, 5, stats.ExpiringBatches[4].DaysLeft)
}

func TestDashboardStats_DaysLeftEsPorDiaCalendario(t *testing.T) {
	// Reloj del servidor en UTC-10, vencimiento en UTC 10 días después: el
	// conteo de días restantes es por día calendario, inmune al offset (la
	// resta de instantes en zonas distintas restaría horas de más o de menos).
	serverNow := time.Date(2026, 6, 15, 1, 0, 0, 0, time.FixedZone("UTC-10", -10*3600))
	batchRepo := &stubBatchRepo{rows: []*repository.BatchWithMedicine{
		{
			Batch: entity.Batch{
				ID:          "b-1",
				MedicineID:  "m-1",
				BatchNumber: "L-001",
				Quantity:    10,
				ExpiryDate:  time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC),
			},
			Medicine: entity.Medicine{
				ID: "m-1", Name: "Amoxicilina", Category: "antibiotico",
				Price: decimal.NewFromFloat(2.0), MinStockLevel: 5,
			},
		},
	}}
	uc := reports.NewUseCase(batchRepo, &stubReportRepo{}, func() time.Time { return serverNow })

	stats, err := uc.DashboardStats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.ExpiringBatches, 1)
	assert.Equal(t, 10, stats.ExpiringBatches[0].DaysLeft)
}

func TestDashboardStats_EsLecturaPura(t *testing.T) {
	// Dos consultas seguidas sobre el mismo snapshot dan el mismo resultado:
	// la agregación no muta nada.
	batchRepo := &stubBatchRepo{rows: []*repository.BatchWithMedicine{
		row("b-1", "L-001", "m-1", "Amoxicilina", "antibiotico", 50, 60, 2.0, 10),
	}}
	uc := reports.NewUseCase(batchRepo, &stubReportRepo{}, func() time.Time { return fixedNow })

	first, err := uc.DashboardStats(context.Background())
	require.NoError(t, err)
	second, err := uc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.TotalBatches, second.TotalBatches)
	assert.True(t, first.TotalValue.Equal(second.TotalValue))
}

// ──────────────────────────────────────────────────────────────────────────────
// MonthlyUsage / TopConsumed / ExpiredWastage
// ──────────────────────────────────────────────────────────────────────────────

func TestMonthlyUsage_SumaTotales(t *testing.T) {
	reportRepo := &stubReportRepo{usage: []repository.UsageResult{
		{MedicineID: "m-1", MedicineName: "Amoxicilina", Quantity: 40, Value: decimal.NewFromFloat(80)},
		{MedicineID: "m-2", MedicineName: "Ibuprofeno", Quantity: 25, Value: decimal.NewFromFloat(37.5)},
	}}
	uc := reports.NewUseCase(&stubBatchRepo{}, reportRepo, func() time.Time { return fixedNow })

	resp, err := uc.MonthlyUsage(context.Background(), 2026, 5)
	require.NoError(t, err)

	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 5, resp.Month)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, int64(65), resp.TotalQuantity)
	assert.True(t, resp.TotalValue.Equal(decimal.NewFromFloat(117.5)))
}

func TestMonthlyUsage_RechazaMesInvalido(t *testing.T) {
	uc := reports.NewUseCase(&stubBatchRepo{}, &stubReportRepo{}, func() time.Time { return fixedNow })

	for _, month := range []int{0, 13} {
		_, err := uc.MonthlyUsage(context.Background(), 2026, month)
		assert.Equal(t, domain.ErrInvalidInput, err)
	}
}

func TestTopConsumed_RechazaRangoInvertido(t *testing.T) {
	uc := reports.NewUseCase(&stubBatchRepo{}, &stubReportRepo{}, func() time.Time { return fixedNow })

	from := fixedNow
	to := fixedNow.AddDate(0, 0, -7)
	_, err := uc.TopConsumed(context.Background(), from, to, 10)
	assert.Equal(t, domain.ErrInvalidInput, err)
}

func TestExpiredWastage_SumaPerdidas(t *testing.T) {
	reportRepo := &stubReportRepo{wastage: []repository.WastageResult{
		{BatchID: "b-1", BatchNumber: "L-001", MedicineName: "Amoxicilina",
			ExpiryDate: fixedNow.AddDate(0, 0, -5), Quantity: 8, ValueLost: decimal.NewFromFloat(16)},
		{BatchID: "b-2", BatchNumber: "L-002", MedicineName: "Ibuprofeno",
			ExpiryDate: fixedNow.AddDate(0, 0, -2), Quantity: 4, ValueLost: decimal.NewFromFloat(6)},
	}}
	uc := reports.NewUseCase(&stubBatchRepo{}, reportRepo, func() time.Time { return fixedNow })

	resp, err := uc.ExpiredWastage(context.Background(), fixedNow.AddDate(0, -1, 0), fixedNow)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 2)
	assert.Equal(t, int64(12), resp.TotalQuantity)
	assert.True(t, resp.TotalValue.Equal(decimal.NewFromFloat(22)))
}
