package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/reports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
)

// ReportHandler endpoints de agregación: dashboard, consumo y pérdidas.
type ReportHandler struct {
	uc      *reports.UseCase
	pdfGen  *pdf.WastageReportGenerator
	appName string
}

// NewReportHandler construye el handler. pdfGen puede ser nil si no se expone
// el reporte en PDF.
func NewReportHandler(uc *reports.UseCase, pdfGen *pdf.WastageReportGenerator, appName string) *ReportHandler {
	return &ReportHandler{uc: uc, pdfGen: pdfGen, appName: appName}
}

// DashboardStats godoc
// @Summary      Indicadores del dashboard
// @Description  Conteos por estado, valor de inventario, top 5 por vencer y
//               distribución por categoría. Se recalcula en cada consulta.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Router       /api/reports/dashboard-stats [get]
func (h *ReportHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.uc.DashboardStats(c.Context())
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(stats)
}

// MonthlyUsage godoc
// @Summary      Consumo mensual por medicamento
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        year   query  int  true  "año"
// @Param        month  query  int  true  "mes (1-12)"
// @Success      200  {object}  dto.MonthlyUsageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/monthly-usage [get]
func (h *ReportHandler) MonthlyUsage(c *fiber.Ctx) error {
	resp, err := h.uc.MonthlyUsage(c.Context(), c.QueryInt("year", 0), c.QueryInt("month", 0))
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(resp)
}

// TopConsumed godoc
// @Summary      Medicamentos más consumidos en un rango
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  true   "fecha inicial (YYYY-MM-DD)"
// @Param        to     query  string  true   "fecha final (YYYY-MM-DD)"
// @Param        limit  query  int     false  "límite (default 10)"
// @Success      200  {array}   dto.UsageRowDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/top-consumed [get]
func (h *ReportHandler) TopConsumed(c *fiber.Ctx) error {
	from, to, err := rangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rows, err := h.uc.TopConsumed(c.Context(), from, to, c.QueryInt("limit", 0))
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(fiber.Map{"rows": rows})
}

// ExpiredWastage godoc
// @Summary      Pérdidas por vencimiento en un rango
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "fecha inicial (YYYY-MM-DD)"
// @Param        to    query  string  true  "fecha final (YYYY-MM-DD)"
// @Success      200  {object}  dto.WastageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/expired-wastage [get]
func (h *ReportHandler) ExpiredWastage(c *fiber.Ctx) error {
	from, to, err := rangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	resp, err := h.uc.ExpiredWastage(c.Context(), from, to)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(resp)
}

// ExpiredWastagePDF godoc
// @Summary      Pérdidas por vencimiento en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  true  "fecha inicial (YYYY-MM-DD)"
// @Param        to    query  string  true  "fecha final (YYYY-MM-DD)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/expired-wastage/pdf [get]
func (h *ReportHandler) ExpiredWastagePDF(c *fiber.Ctx) error {
	from, to, err := rangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	report, err := h.uc.ExpiredWastage(c.Context(), from, to)
	if err != nil {
		return reportError(c, err)
	}
	doc, err := h.pdfGen.Generate(report, h.appName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="perdidas-%s-%s.pdf"`, report.From, report.To))
	return c.Send(doc)
}

// rangeParams lee from/to obligatorios; el rango es inclusivo en ambos días.
func rangeParams(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("fecha 'from' inválida (YYYY-MM-DD)")
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("fecha 'to' inválida (YYYY-MM-DD)")
	}
	return from, to.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func reportError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
