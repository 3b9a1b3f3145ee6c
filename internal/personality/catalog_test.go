package personality

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repo-storyteller/internal/database"
	"repo-storyteller/internal/database/mocks"
)

func TestCatalog_Resolve(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "Rubber Duckie", c.Default().Name)
	assert.Equal(t, "Debug Duck", c.Resolve("  debug duck ").Name)
	assert.Equal(t, "Rubber Duckie", c.Resolve("Unknown Goose").Name)

	_, ok := c.Lookup("Unknown Goose")
	assert.False(t, ok)
	assert.Len(t, c.All(), 3)
}

func TestCatalog_AllIsACopy(t *testing.T) {
	c := DefaultCatalog()
	all := c.All()
	all[0].Name = "mutated"

	assert.Equal(t, "Rubber Duckie", c.Default().Name)
}

func TestCatalog_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts only absent personalities", func(t *testing.T) {
		store := new(mocks.Store)
		store.On("CreatePersonalityIfAbsent", ctx, mock.MatchedBy(func(p database.CreatePersonalityIfAbsentParams) bool {
			return p.Name == "Rubber Duckie"
		})).Return(int64(0), nil).Once()
		store.On("CreatePersonalityIfAbsent", ctx, mock.Anything).Return(int64(1), nil).Twice()

		added, err := DefaultCatalog().Seed(ctx, store)

		require.NoError(t, err)
		assert.Equal(t, 2, added)
		store.AssertExpectations(t)
	})

	t.Run("stops at the first database error", func(t *testing.T) {
		store := new(mocks.Store)
		store.On("CreatePersonalityIfAbsent", ctx, mock.Anything).Return(int64(0), errors.New("db down")).Once()

		_, err := DefaultCatalog().Seed(ctx, store)

		assert.Error(t, err)
		store.AssertNumberOfCalls(t, "CreatePersonalityIfAbsent", 1)
	})
}
