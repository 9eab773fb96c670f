package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPick(t *testing.T) {
	tbl := New(
		[]string{"Company", "Email"},
		[][]string{
			{" Acme Inc ", "a@x.com"},
			{"", "b@y.com"},
			{"Widgets"},
		},
	)

	t.Run("falls back through alias precedence", func(t *testing.T) {
		// Preferred name absent; the historical variant is used instead.
		got := tbl.Pick([]string{"Business_Name", "Business Name", "Company"}, "")
		assert.Equal(t, []string{"Acme Inc", "", "Widgets"}, got)
	})

	t.Run("no candidate present yields constant default column", func(t *testing.T) {
		got := tbl.Pick([]string{"Phone", "Phone_Number"}, "n/a")
		assert.Equal(t, []string{"n/a", "n/a", "n/a"}, got)
	})

	t.Run("ragged row reads default", func(t *testing.T) {
		got := tbl.Pick([]string{"Email"}, "")
		assert.Equal(t, []string{"a@x.com", "b@y.com", ""}, got)
	})
}

func TestPickName(t *testing.T) {
	tbl := New([]string{"Company"}, nil)

	name, ok := tbl.PickName([]string{"Business_Name", "Company"})
	assert.True(t, ok)
	assert.Equal(t, "Company", name)

	_, ok = tbl.PickName([]string{"CRD"})
	assert.False(t, ok)
}

func TestCell(t *testing.T) {
	tbl := New([]string{"A", "B"}, [][]string{{" x ", "y"}})

	assert.Equal(t, "x", tbl.Cell(0, "A"))
	assert.Equal(t, "", tbl.Cell(0, "C"))
	assert.Equal(t, "", tbl.Cell(5, "A"))
	assert.Equal(t, "", tbl.Cell(-1, "A"))
}

func TestAppendColumn(t *testing.T) {
	tbl := New([]string{"A"}, [][]string{{"1"}, {"2"}})

	require.NoError(t, tbl.AppendColumn("B", []string{"x", "y"}))
	assert.Equal(t, []string{"A", "B"}, tbl.Header)
	assert.Equal(t, "x", tbl.Cell(0, "B"))
	assert.Equal(t, "y", tbl.Cell(1, "B"))

	err := tbl.AppendColumn("C", []string{"only-one"})
	assert.Error(t, err)
}

func TestAppendColumnPadsRaggedRows(t *testing.T) {
	tbl := New([]string{"A", "B"}, [][]string{{"1"}})

	require.NoError(t, tbl.AppendColumn("C", []string{"z"}))
	assert.Equal(t, "z", tbl.Cell(0, "C"))
	assert.Equal(t, "", tbl.Cell(0, "B"))
}

func TestClone(t *testing.T) {
	tbl := New([]string{"A"}, [][]string{{"1"}})
	cp := tbl.Clone()

	require.NoError(t, cp.AppendColumn("B", []string{"x"}))
	cp.Rows[0][0] = "mutated"

	assert.Equal(t, []string{"A"}, tbl.Header)
	assert.Equal(t, "1", tbl.Cell(0, "A"))
}
