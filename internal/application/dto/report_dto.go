package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/reports/dashboard-stats.
// Todos los conteos se recalculan contra el snapshot del momento de la
// consulta; la clasificación depende del reloj y no se cachea.
type DashboardStatsDTO struct {
	TotalMedicines int             `json:"total_medicines"` // con al menos un lote
	TotalBatches   int             `json:"total_batches"`
	LowStock       int             `json:"low_stock"`
	ExpiringSoon   int             `json:"expiring_soon"`
	Expired        int             `json:"expired"`
	TotalValue     decimal.Decimal `json:"total_value"` // Σ qty × precio, lotes con qty > 0

	// Top 5 lotes por vencer, los más próximos primero.
	ExpiringBatches []ExpiringBatchDTO `json:"expiring_batches"`

	// Distribución por categoría de medicamento.
	Categories []CategoryStatDTO `json:"categories"`
}

// ExpiringBatchDTO lote del widget "por vencer" del dashboard.
type ExpiringBatchDTO struct {
	BatchID      string `json:"batch_id"`
	BatchNumber  string `json:"batch_number"`
	MedicineName string `json:"medicine_name"`
	Quantity     int    `json:"quantity"`
	ExpiryDate   string `json:"expiry_date"` // YYYY-MM-DD
	DaysLeft     int    `json:"days_left"`
}

// CategoryStatDTO valor y número de lotes de una categoría.
type CategoryStatDTO struct {
	Category   string          `json:"category"`
	BatchCount int             `json:"batch_count"`
	Value      decimal.Decimal `json:"value"`
}

// UsageRowDTO fila del reporte de consumo mensual / top consumidos.
type UsageRowDTO struct {
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Category     string          `json:"category"`
	Quantity     int64           `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
}

// MonthlyUsageResponse reporte de consumo de un mes.
type MonthlyUsageResponse struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Rows          []UsageRowDTO   `json:"rows"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// WastageRowDTO fila del reporte de pérdidas por vencimiento (por lote).
type WastageRowDTO struct {
	BatchID      string          `json:"batch_id"`
	BatchNumber  string          `json:"batch_number"`
	MedicineName string          `json:"medicine_name"`
	Category     string          `json:"category"`
	ExpiryDate   string          `json:"expiry_date"` // YYYY-MM-DD
	Quantity     int64           `json:"quantity"`
	ValueLost    decimal.Decimal `json:"value_lost"`
}

// WastageResponse reporte de pérdidas por vencimiento en un rango.
type WastageResponse struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	Rows          []WastageRowDTO `json:"rows"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
