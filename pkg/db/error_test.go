package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{
			"postgres message",
			errors.New(`ERROR: duplicate key value violates unique constraint "idx_accounts_email" (SQLSTATE 23505)`),
			true,
		},
		{
			"mysql message",
			errors.New("Error 1062 (23000): Duplicate entry 'a@b.com' for key 'accounts.idx_accounts_email'"),
			true,
		},
		{
			"sqlite message",
			errors.New("constraint failed: UNIQUE constraint failed: accounts.email (2067)"),
			true,
		},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKeyErr(tt.err))
		})
	}
}
