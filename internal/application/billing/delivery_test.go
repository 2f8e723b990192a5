package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/application/audit"
	"github.com/jhoicas/inventario-produccion/internal/application/billing"
	"github.com/jhoicas/inventario-produccion/internal/application/sales"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Despachos
// ──────────────────────────────────────────────────────────────────────────────

type deliveryFixture struct {
	repos repository.TxRepos
	svc   *billing.DeliveryService
	d     *entity.Delivery
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	rec := audit.NewRecorder()
	sale := seedSale(t, repos)
	d, err := billing.NewService(store, rec).CreatePendingDelivery(context.Background(), testActor, sale, sales.DeliveryInput{ShippingAddress: "Calle 1"})
	require.NoError(t, err)
	return &deliveryFixture{repos: repos, svc: billing.NewDeliveryService(store, repos, rec), d: d}
}

func strPtr(s string) *string { return &s }

func TestDeliveryService_GetYGetBySale(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	got, err := f.svc.Get(ctx, f.d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryPending, got.Status)

	bySale, err := f.svc.GetBySale(ctx, f.d.SaleID)
	require.NoError(t, err)
	assert.Equal(t, f.d.ID, bySale.ID)

	_, err = f.svc.Get(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.GetBySale(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliveryService_Update_AvanzaHastaEntregado(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()
	scheduled := time.Now().Add(24 * time.Hour)

	d, err := f.svc.Update(ctx, testActor, f.d.ID, billing.UpdateDeliveryInput{
		Status:         strPtr(entity.DeliveryShipped),
		Courier:        strPtr("Servientrega"),
		TrackingNumber: strPtr("TRK-1"),
		ScheduledDate:  &scheduled,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryShipped, d.Status)
	assert.Equal(t, "Servientrega", d.Courier)
	assert.Equal(t, "Calle 1", d.ShippingAddress, "lo no enviado se conserva")
	assert.Nil(t, d.DeliveryDate)

	d, err = f.svc.Update(ctx, testActor, f.d.ID, billing.UpdateDeliveryInput{Status: strPtr(entity.DeliveryDelivered)})
	require.NoError(t, err)
	require.NotNil(t, d.DeliveryDate, "entregado sin fecha toma la actual")

	stored, err := f.repos.Deliveries.GetByID(ctx, f.d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryDelivered, stored.Status)
	assert.Equal(t, "TRK-1", stored.TrackingNumber)

	logs, err := f.repos.Activity.ListByTable(ctx, audit.TableDelivery)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestDeliveryService_Update_TransicionesInvalidas(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, testActor, f.d.ID, billing.UpdateDeliveryInput{Status: strPtr(entity.DeliveryDelivered)})
	assert.ErrorIs(t, err, domain.ErrConflict, "pending no salta a delivered")

	_, err = f.svc.Update(ctx, testActor, f.d.ID, billing.UpdateDeliveryInput{Status: strPtr(entity.DeliveryCancelled)})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, testActor, f.d.ID, billing.UpdateDeliveryInput{Courier: strPtr("otro")})
	assert.ErrorIs(t, err, domain.ErrConflict, "un despacho cancelado no se modifica")

	_, err = f.svc.Update(ctx, testActor, uuid.New().String(), billing.UpdateDeliveryInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
