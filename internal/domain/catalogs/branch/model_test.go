package branch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"restock/internal/core/id"
)

func TestDeriveCode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sawyer", "SAW"},
		{"sawyer", "SAW"},
		{"St. Mary", "STM"},
		{"Al-Noor 2", "ALN"},
		{"Ox", "OX"},
		{"", ""},
		{"42", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveCode(tt.name), tt.name)
	}
}

func TestBranch_Validate(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	b := NewBranch("Sawyer", companyID)
	assert.NoError(t, b.Validate(ctx))
	assert.Equal(t, "SAW", b.Code)

	short := NewBranch("Ox", companyID)
	assert.Error(t, short.Validate(ctx))

	noCompany := NewBranch("Sawyer", id.Nil())
	assert.Error(t, noCompany.Validate(ctx))

	unnamed := NewBranch("", companyID)
	assert.Error(t, unnamed.Validate(ctx))
}
