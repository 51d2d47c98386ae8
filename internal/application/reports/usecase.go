// Package reports contiene el motor de agregación: estadísticas del
// dashboard, consumo mensual, top consumidos y pérdidas por vencimiento.
//
// Todo se recalcula en cada consulta contra un snapshot fresco — nada se
// cachea — porque la clasificación de los lotes depende del reloj del caller,
// no solo del historial de eventos.
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/pharmacy"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

const dashboardTopExpiring = 5 // lotes en el widget "por vencer"

// UseCase agregaciones de solo lectura sobre lotes + bitácora.
type UseCase struct {
	batchRepo  repository.BatchRepository
	reportRepo repository.ReportRepository
	now        func() time.Time
}

// NewUseCase construye el caso de uso. nowFn permite fijar el reloj en tests;
// nil usa time.Now.
func NewUseCase(batchRepo repository.BatchRepository, reportRepo repository.ReportRepository, nowFn func() time.Time) *UseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &UseCase{batchRepo: batchRepo, reportRepo: reportRepo, now: nowFn}
}

// DashboardStats recorre el snapshot completo de lotes y deriva los
// indicadores del dashboard clasificando cada lote con el reloj actual:
// conteos por estado, valor total del inventario (solo lotes con
// existencias), top 5 por vencer y distribución por categoría.
func (uc *UseCase) DashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	rows, err := uc.batchRepo.ListWithMedicine(0, 0)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	// Día calendario normalizado a UTC: la resta con el vencimiento da
	// múltiplos exactos de 24h, sin importar offset ni cambios de hora.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := &dto.DashboardStatsDTO{TotalValue: decimal.Zero}
	medicines := make(map[string]struct{})
	categories := make(map[string]*dto.CategoryStatDTO)
	var expiring []dto.ExpiringBatchDTO

	for _, row := range rows {
		b := row.Batch
		m := row.Medicine
		stats.TotalBatches++
		medicines[m.ID] = struct{}{}

		switch pharmacy.Classify(&b, m.MinStockLevel, now) {
		case pharmacy.StatusExpired:
			stats.Expired++
		case pharmacy.StatusExpiringSoon:
			stats.ExpiringSoon++
			expiryDay := time.Date(b.ExpiryDate.Year(), b.ExpiryDate.Month(), b.ExpiryDate.Day(), 0, 0, 0, 0, time.UTC)
			expiring = append(expiring, dto.ExpiringBatchDTO{
				BatchID:      b.ID,
				BatchNumber:  b.BatchNumber,
				MedicineName: m.Name,
				Quantity:     b.Quantity,
				ExpiryDate:   b.ExpiryDate.Format("2006-01-02"),
				DaysLeft:     int(expiryDay.Sub(today).Hours() / 24),
			})
		case pharmacy.StatusLowStock:
			stats.LowStock++
		}

		value := decimal.Zero
		if b.Quantity > 0 {
			value = m.Price.Mul(decimal.NewFromInt(int64(b.Quantity)))
			stats.TotalValue = stats.TotalValue.Add(value)
		}

		cat, ok := categories[m.Category]
		if !ok {
			cat = &dto.CategoryStatDTO{Category: m.Category, Value: decimal.Zero}
			categories[m.Category] = cat
		}
		cat.BatchCount++
		cat.Value = cat.Value.Add(value)
	}

	stats.TotalMedicines = len(medicines)

	// Los más próximos a vencer primero; empates por número de lote.
	sort.Slice(expiring, func(i, j int) bool {
		if expiring[i].ExpiryDate != expiring[j].ExpiryDate {
			return expiring[i].ExpiryDate < expiring[j].ExpiryDate
		}
		return expiring[i].BatchNumber < expiring[j].BatchNumber
	})
	if len(expiring) > dashboardTopExpiring {
		expiring = expiring[:dashboardTopExpiring]
	}
	stats.ExpiringBatches = expiring

	for _, cat := range categories {
		stats.Categories = append(stats.Categories, *cat)
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		return stats.Categories[i].Category < stats.Categories[j].Category
	})
	return stats, nil
}

// MonthlyUsage suma las salidas (STOCK_OUT) del mes agrupadas por
// medicamento, con el valor histórico capturado en cada evento.
func (uc *UseCase) MonthlyUsage(ctx context.Context, year, month int) (*dto.MonthlyUsageResponse, error) {
	if year < 2000 || month < 1 || month > 12 {
		return nil, domain.ErrInvalidInput
	}
	loc := uc.now().Location()
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	rows, err := uc.reportRepo.GetMonthlyUsage(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := &dto.MonthlyUsageResponse{Year: year, Month: month, TotalValue: decimal.Zero}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, toUsageRow(r))
		resp.TotalQuantity += r.Quantity
		resp.TotalValue = resp.TotalValue.Add(r.Value)
	}
	return resp, nil
}

// TopConsumed devuelve los `limit` medicamentos con mayor salida del período.
func (uc *UseCase) TopConsumed(ctx context.Context, from, to time.Time, limit int) ([]dto.UsageRowDTO, error) {
	if !to.After(from) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := uc.reportRepo.GetTopConsumed(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsageRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, toUsageRow(r))
	}
	return out, nil
}

// ExpiredWastage reporta, por lote vencido dentro del rango, la cantidad y el
// valor perdidos (existencias remanentes más bajas ya registradas).
func (uc *UseCase) ExpiredWastage(ctx context.Context, from, to time.Time) (*dto.WastageResponse, error) {
	if !to.After(from) {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.reportRepo.GetExpiredWastage(ctx, from, to, uc.now())
	if err != nil {
		return nil, err
	}
	resp := &dto.WastageResponse{
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		TotalValue: decimal.Zero,
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, dto.WastageRowDTO{
			BatchID:      r.BatchID,
			BatchNumber:  r.BatchNumber,
			MedicineName: r.MedicineName,
			Category:     r.Category,
			ExpiryDate:   r.ExpiryDate.Format("2006-01-02"),
			Quantity:     r.Quantity,
			ValueLost:    r.ValueLost,
		})
		resp.TotalQuantity += r.Quantity
		resp.TotalValue = resp.TotalValue.Add(r.ValueLost)
	}
	return resp, nil
}

func toUsageRow(r repository.UsageResult) dto.UsageRowDTO {
	return dto.UsageRowDTO{
		MedicineID:   r.MedicineID,
		MedicineName: r.MedicineName,
		Category:     r.Category,
		Quantity:     r.Quantity,
		Value:        r.Value,
	}
}
