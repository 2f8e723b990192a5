package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-produccion/internal/domain"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))
	assert.ErrorIs(t, mapError("op", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, mapError("op", &pgconn.PgError{Code: "23503"}), domain.ErrConstraint)
	assert.ErrorIs(t, mapError("op", &pgconn.PgError{Code: "23514"}), domain.ErrConstraint)

	other := errors.New("conexión cerrada")
	err := mapError("insert", other)
	assert.ErrorIs(t, err, other)
	assert.Equal(t, "insert: conexión cerrada", err.Error())
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.sql())
	w.add("s.type = ?", "in")
	w.add("(s.description ILIKE ? OR p.name ILIKE ?)", likePattern("50%_x"))
	assert.Equal(t, " WHERE s.type = $1 AND (s.description ILIKE $2 OR p.name ILIKE $2)", w.sql())
	assert.Equal(t, " LIMIT $3 OFFSET $4", w.page(10, 5))
	assert.Equal(t, []any{"in", `%50\%\_x%`, 10, 5}, w.args)
}
