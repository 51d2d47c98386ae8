package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrMedicineNotFound   = errors.New("medicamento no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicateBatch     = errors.New("el número de lote ya existe para ese medicamento")
	ErrExpiryNotFuture    = errors.New("la fecha de vencimiento debe ser posterior a hoy")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrNoEligibleStock    = errors.New("no hay lotes vigentes con existencias")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)
