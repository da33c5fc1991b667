package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	bookActions := []Action{Activate, Deactivate, Feature, Unfeature, Delete}
	categoryActions := []Action{Activate, Deactivate, Delete}

	a, err := Parse("feature", bookActions...)
	require.NoError(t, err)
	assert.Equal(t, Feature, a)

	a, err = Parse(" DELETE ", categoryActions...)
	require.NoError(t, err)
	assert.Equal(t, Delete, a)

	_, err = Parse("feature", categoryActions...)
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = Parse("archive", bookActions...)
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = Parse("", bookActions...)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Selected books activated.", Message("books", Activate))
	assert.Equal(t, "Selected books unfeatured.", Message("books", Unfeature))
	assert.Equal(t, "Selected categories deleted.", Message("categories", Delete))
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, UniqueIDs([]int64{3, 1, 3, 0, -4, 2, 1}))
	assert.Empty(t, UniqueIDs(nil))
}
