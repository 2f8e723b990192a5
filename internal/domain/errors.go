package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrConstraint           = errors.New("violación de restricción de integridad")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInsufficientMaterial = errors.New("stock de materia prima insuficiente")
	ErrAlreadyProcessed     = errors.New("la producción ya fue procesada")
	ErrMissingBoM           = errors.New("el producto no tiene lista de materiales (BoM)")
)
