package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.BoMRepository = (*BoMRepo)(nil)

// BoMRepo implementación de BoMRepository sobre PostgreSQL.
type BoMRepo struct {
	q Querier
}

// NewBoMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBoMRepository(q Querier) *BoMRepo {
	return &BoMRepo{q: q}
}

const bomColumns = `b.id, b.product_id, b.raw_material_id, b.qty, b.unit, b.created_at, b.updated_at`

func scanBoM(row rowScanner) (*entity.BoM, error) {
	var b entity.BoM
	if err := row.Scan(&b.ID, &b.ProductID, &b.RawMaterialID, &b.Qty, &b.Unit, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create persiste una línea. (product_id, raw_material_id) duplicado → ErrDuplicate.
func (r *BoMRepo) Create(ctx context.Context, b *entity.BoM) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO boms (id, product_id, raw_material_id, qty, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.ProductID, b.RawMaterialID, b.Qty, b.Unit, b.CreatedAt, b.UpdatedAt,
	)
	return mapError("insert bom", err)
}

// GetByID obtiene una línea de BoM.
func (r *BoMRepo) GetByID(ctx context.Context, id string) (*entity.BoM, error) {
	b, err := scanBoM(r.q.QueryRow(ctx, `SELECT `+bomColumns+` FROM boms b WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}
	return b, nil
}

// ListByProduct devuelve la receta de un producto ordenada por materia prima.
func (r *BoMRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.BoM, error) {
	rows, err := r.q.Query(ctx, `SELECT `+bomColumns+` FROM boms b WHERE b.product_id = $1 ORDER BY b.raw_material_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list boms: %w", err)
	}
	defer rows.Close()
	var list []*entity.BoM
	for rows.Next() {
		b, err := scanBoM(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// LinesByProduct une la receta con sus materias primas. El orden por raw_material_id
// fija el orden de bloqueo durante el procesamiento.
func (r *BoMRepo) LinesByProduct(ctx context.Context, productID string) ([]entity.BoMLine, error) {
	query := `
		SELECT ` + bomColumns + `, m.id, m.name, m.unit, m.price, m.stock, m.is_active, m.created_at, m.updated_at
		FROM boms b
		JOIN raw_materials m ON m.id = b.raw_material_id
		WHERE b.product_id = $1
		ORDER BY b.raw_material_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("bom lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.BoMLine
	for rows.Next() {
		var l entity.BoMLine
		m := &l.Material
		if err := rows.Scan(&l.ID, &l.ProductID, &l.RawMaterialID, &l.Qty, &l.Unit, &l.CreatedAt, &l.UpdatedAt,
			&m.ID, &m.Name, &m.Unit, &m.Price, &m.Stock, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Update modifica cantidad y unidad de la línea.
func (r *BoMRepo) Update(ctx context.Context, b *entity.BoM) error {
	cmd, err := r.q.Exec(ctx, `UPDATE boms SET qty = $2, unit = $3, updated_at = $4 WHERE id = $1`,
		b.ID, b.Qty, b.Unit, b.UpdatedAt)
	if err != nil {
		return mapError("update bom", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una línea de BoM.
func (r *BoMRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM boms WHERE id = $1`, id)
	if err != nil {
		return mapError("delete bom", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
