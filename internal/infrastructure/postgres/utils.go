package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el esquema del POS puede producir:
//   - 23505 unique_violation: SKU por tenant, membresía activa por usuario,
//     sesión de caja abierta por sucursal.
//   - 23503 foreign_key_violation: movimiento o línea apuntando a un producto
//     o sucursal inexistente.
//   - 23514 check_violation: cantidad de stock o monto negativo.
const (
	codeUniqueViolation = "23505"
	codeFKViolation     = "23503"
	codeCheckViolation  = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation || strings.Contains(err.Error(), codeUniqueViolation)
}

// isForeignKeyViolation verifica si un error es una violación de FK.
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeFKViolation
}

// isCheckViolation verifica si un error es una violación de CHECK.
func isCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}
