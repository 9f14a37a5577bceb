package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, apperrors.ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, apperrors.ErrConflict},
		{"foreign key violated", gorm.ErrForeignKeyViolated, apperrors.ErrNotFound},
		{"pg unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), apperrors.ErrConflict},
		{"pg foreign key violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), apperrors.ErrNotFound},
		{"other pg error", &pgconn.PgError{Code: "40001"}, nil},
		{"unrelated", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			switch {
			case tt.in == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				assert.Same(t, tt.in, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}
