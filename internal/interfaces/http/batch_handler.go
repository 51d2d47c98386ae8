package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/stock"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// BatchHandler maneja lotes: listados, entradas, salidas FEFO y baja de
// vencidos (protegido).
type BatchHandler struct {
	uc *stock.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *stock.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// List godoc
// @Summary      Listar lotes con medicamento y clasificación
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "límite (0 = todos)"
// @Param        offset  query  int  false  "offset"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)
	resp, err := h.uc.ListBatches(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// ListByMedicine godoc
// @Summary      Lotes de un medicamento (incluye cantidad cero), FEFO ASC
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        medicineId  path  string  true  "ID del medicamento"
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/medicine/{medicineId} [get]
func (h *BatchHandler) ListByMedicine(c *fiber.Ctx) error {
	batches, err := h.uc.GetBatchesForMedicine(c.Context(), c.Params("medicineId"))
	if err != nil {
		if err == domain.ErrMedicineNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"batches": batches})
}

// StockIn godoc
// @Summary      Registrar entrada: crea un lote y su evento STOCK_IN
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "medicine_id, batch_number, quantity, expiry_date (YYYY-MM-DD)"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/stock-in [post]
func (h *BatchHandler) StockIn(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.uc.StockIn(c.Context(), actorID, in)
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(batch)
}

// StockOut godoc
// @Summary      Registrar salida asignada por FEFO
// @Description  Consume lotes vigentes en orden de vencimiento. Si el total
//               elegible no cubre lo pedido se rechaza completo, sin mutación
//               parcial; el recibo detalla cuánto salió de cada lote.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "medicine_id y quantity"
// @Success      200   {object}  dto.StockOutReceiptDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/stock-out [post]
func (h *BatchHandler) StockOut(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	receipt, err := h.uc.StockOut(c.Context(), actorID, in)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(receipt)
}

// WriteOffExpired godoc
// @Summary      Dar de baja existencias vencidas (solo admin)
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WriteOffResultDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/batches/write-off-expired [post]
func (h *BatchHandler) WriteOffExpired(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	result, err := h.uc.WriteOffExpired(c.Context(), actorID)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(result)
}

// stockError mapea los errores del motor de lotes a códigos HTTP.
func stockError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrExpiryNotFuture:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la fecha de vencimiento debe ser posterior a hoy"})
	case domain.ErrMedicineNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
	case domain.ErrDuplicateBatch:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_BATCH", Message: "el número de lote ya existe para ese medicamento"})
	case domain.ErrNoEligibleStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ELIGIBLE_STOCK", Message: "no hay lotes vigentes con existencias"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
