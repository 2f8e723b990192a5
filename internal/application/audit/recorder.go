// Package audit escribe el registro de actividad dentro de la misma transacción de la operación.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// Tablas usadas en el registro de actividad.
const (
	TableStock       = "Stock"
	TableProduction  = "Production"
	TableSale        = "Sale"
	TablePurchase    = "Purchase"
	TableUsage       = "Usage"
	TableProduct     = "Product"
	TableRawMaterial = "RawMaterial"
	TableBoM         = "BoM"
	TableInvoice     = "Generate Invoice"
	TableDelivery    = "Delivery"
)

// Entry datos de una entrada de auditoría.
type Entry struct {
	UserID      string
	Table       string
	Action      string
	Description string
}

// Recorder escribe entradas de auditoría.
type Recorder struct {
	now func() time.Time
}

// NewRecorder construye el recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Record persiste la entrada con repo, que debe estar atado a la transacción del caller para que la
// entrada se confirme o se descarte junto con la operación.
func (r *Recorder) Record(ctx context.Context, repo repository.ActivityLogRepository, e Entry) error {
	if e.UserID == "" {
		return fmt.Errorf("auditoría sin usuario: %w", domain.ErrInvalidInput)
	}
	if e.Action == "" || e.Table == "" {
		return fmt.Errorf("auditoría sin acción o tabla: %w", domain.ErrInvalidInput)
	}
	log := &entity.ActivityLog{
		ID:          uuid.New().String(),
		UserID:      e.UserID,
		Table:       e.Table,
		Action:      e.Action,
		Description: e.Description,
		CreatedAt:   r.now(),
	}
	if err := repo.Create(ctx, log); err != nil {
		return fmt.Errorf("registrar actividad: %w", err)
	}
	return nil
}
