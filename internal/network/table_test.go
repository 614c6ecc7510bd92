package network

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/tidewater/internal/model"
)

func TestTable_SymmetricLookup(t *testing.T) {
	tbl := NewTable().Set("A", "B", 10).Set("C", "B", 7)

	assert.Equal(t, 10.0, tbl.Distance("A", "B"))
	assert.Equal(t, 10.0, tbl.Distance("B", "A"))
	assert.Equal(t, 7.0, tbl.Distance("B", "C"))
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_DirectedEntryWins(t *testing.T) {
	tbl := NewTable().Set("A", "B", 10).Set("B", "A", 12)

	assert.Equal(t, 10.0, tbl.Distance("A", "B"))
	assert.Equal(t, 12.0, tbl.Distance("B", "A"))
}

func TestTable_SameLocationAndFallback(t *testing.T) {
	tbl := NewTable().Set("A", "A", 99)
	assert.Equal(t, 0.0, tbl.Distance("A", "A"), "identical locations are zero apart")
	assert.Equal(t, 0.0, tbl.Distance("A", "Z"))

	tbl.Fallback = 40
	assert.Equal(t, 40.0, tbl.Distance("A", "Z"))
}

func TestProviderFunc(t *testing.T) {
	var p Provider = ProviderFunc(func(a, b model.Location) float64 { return 3 })
	assert.Equal(t, 3.0, p.Distance("x", "y"))
}
