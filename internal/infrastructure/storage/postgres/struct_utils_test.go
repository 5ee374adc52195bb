package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"restock/internal/core/entity"
	"restock/internal/core/id"
)

type testDoc struct {
	entity.Document
	BranchCode   string     `db:"branch_code"`
	DeliveryDate time.Time  `db:"delivery_date"`
	Ignored      []struct{} `db:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testDoc]()

	for _, expected := range []string{
		"id", "deletion_mark", "version",
		"created_at", "updated_at", "created_by", "updated_by",
		"number", "branch_id", "date", "comment",
		"branch_code", "delivery_date",
	} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMap(t *testing.T) {
	doc := testDoc{
		Document:   entity.NewDocument(id.New()),
		BranchCode: "SAW",
	}
	doc.Number = "SAW-STC-260120-01"
	doc.Version = 3

	m := StructToMap(doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "SAW-STC-260120-01", m["number"])
	assert.Equal(t, "SAW", m["branch_code"])
	_, hasIgnored := m["-"]
	assert.False(t, hasIgnored)
}
