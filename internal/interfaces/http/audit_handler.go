package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// AuditHandler consulta de la bitácora de stock (protegido, solo lectura).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Bitácora de movimientos de stock
// @Description  Eventos STOCK_IN, STOCK_OUT y EXPIRED, más recientes primero.
//               Filtros combinables por tipo y rango de fechas (YYYY-MM-DD).
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  false  "STOCK_IN | STOCK_OUT | EXPIRED"
// @Param        from    query  string  false  "fecha inicial (YYYY-MM-DD)"
// @Param        to      query  string  false  "fecha final (YYYY-MM-DD)"
// @Param        limit   query  int     false  "límite (default 50)"
// @Param        offset  query  int     false  "offset"
// @Success      200  {object}  dto.StockLogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit/stock-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	return h.list(c, audit.QueryInput{})
}

// ListByMedicine godoc
// @Summary      Bitácora de un medicamento
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        medicineId  path  string  true  "ID del medicamento"
// @Success      200  {object}  dto.StockLogListResponse
// @Router       /api/audit/stock-logs/medicine/{medicineId} [get]
func (h *AuditHandler) ListByMedicine(c *fiber.Ctx) error {
	return h.list(c, audit.QueryInput{MedicineID: c.Params("medicineId")})
}

// ListByBatch godoc
// @Summary      Bitácora de un lote
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        batchId  path  string  true  "ID del lote"
// @Success      200  {object}  dto.StockLogListResponse
// @Router       /api/audit/stock-logs/batch/{batchId} [get]
func (h *AuditHandler) ListByBatch(c *fiber.Ctx) error {
	return h.list(c, audit.QueryInput{BatchID: c.Params("batchId")})
}

func (h *AuditHandler) list(c *fiber.Ctx, in audit.QueryInput) error {
	in.Kind = c.Query("kind")
	in.Limit = c.QueryInt("limit", 0)
	in.Offset = c.QueryInt("offset", 0)

	var err error
	if in.From, err = parseDay(c.Query("from"), false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'from' inválida (YYYY-MM-DD)"})
	}
	if in.To, err = parseDay(c.Query("to"), true); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'to' inválida (YYYY-MM-DD)"})
	}

	resp, err := h.uc.List(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de evento inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// parseDay interpreta YYYY-MM-DD; endOfDay extiende la cota al final del día
// para que el rango sea inclusivo en ambos extremos.
func parseDay(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day, nil
}
