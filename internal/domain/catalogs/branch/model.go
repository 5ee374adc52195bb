// Package branch provides the Branch catalog.
// Branches are the retail locations submitting stock orders; their 3-letter
// code is the leading segment of every generated document identifier.
package branch

import (
	"context"
	"strings"
	"unicode"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
)

// Branch represents a retail branch.
type Branch struct {
	entity.Catalog

	// CompanyID is the owning company
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// IsActive indicates if the branch is operational
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewBranch creates a new Branch, deriving its code from the name.
func NewBranch(name string, companyID id.ID) *Branch {
	return &Branch{
		Catalog:   entity.NewCatalog(DeriveCode(name), name),
		CompanyID: companyID,
		IsActive:  true,
	}
}

// DeriveCode truncates a branch name to its 3-letter uppercase code.
// Non-letter runes are skipped, so "St. Mary" becomes "STM".
func DeriveCode(name string) string {
	var b strings.Builder
	for _, r := range name {
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= 3 {
			break
		}
	}
	return b.String()
}

// Validate implements entity.Validatable.
func (b *Branch) Validate(ctx context.Context) error {
	if err := b.Catalog.Validate(ctx); err != nil {
		return err
	}

	if len(b.Code) != 3 {
		return apperror.NewValidation("branch code must be exactly 3 letters").
			WithDetail("field", "code").
			WithDetail("value", b.Code)
	}

	if id.IsNil(b.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	return nil
}
