package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta la violación de constraint único (23505). Aquí es
// el respaldo en DB del número de lote único por medicamento: la verificación
// de duplicados del caso de uso corre dentro de la tx, y la constraint cierra
// la carrera entre dos entradas simultáneas del mismo lote.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// Algunos poolers envuelven el error sin preservar el tipo.
	return strings.Contains(err.Error(), "23505")
}
