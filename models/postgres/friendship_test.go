package postgres_test

import (
	"testing"

	models "Scrawl/models/postgres"

	"github.com/stretchr/testify/assert"
)

func TestSortPair(t *testing.T) {
	t.Run("Already ordered pair is kept", func(t *testing.T) {
		a, b := models.SortPair("11111111-0000-0000-0000-000000000000", "22222222-0000-0000-0000-000000000000")
		assert.Equal(t, "11111111-0000-0000-0000-000000000000", a)
		assert.Equal(t, "22222222-0000-0000-0000-000000000000", b)
	})

	t.Run("Reversed pair is swapped", func(t *testing.T) {
		a, b := models.SortPair("22222222-0000-0000-0000-000000000000", "11111111-0000-0000-0000-000000000000")
		assert.Equal(t, "11111111-0000-0000-0000-000000000000", a)
		assert.Equal(t, "22222222-0000-0000-0000-000000000000", b)
	})

	t.Run("Both orders give the same storage pair", func(t *testing.T) {
		a1, b1 := models.SortPair("abc", "def")
		a2, b2 := models.SortPair("def", "abc")
		assert.Equal(t, a1, a2)
		assert.Equal(t, b1, b2)
	})
}

func TestFriendshipBeforeSave(t *testing.T) {
	t.Run("Canonical pair passes", func(t *testing.T) {
		f := models.Friendship{
			AccountUUID:  "11111111-0000-0000-0000-000000000000",
			Account2UUID: "22222222-0000-0000-0000-000000000000",
		}
		assert.NoError(t, f.BeforeSave(nil))
	})

	t.Run("Self pair is rejected", func(t *testing.T) {
		f := models.Friendship{
			AccountUUID:  "11111111-0000-0000-0000-000000000000",
			Account2UUID: "11111111-0000-0000-0000-000000000000",
		}
		assert.Error(t, f.BeforeSave(nil))
	})

	t.Run("Non-canonical order is rejected", func(t *testing.T) {
		f := models.Friendship{
			AccountUUID:  "22222222-0000-0000-0000-000000000000",
			Account2UUID: "11111111-0000-0000-0000-000000000000",
		}
		assert.Error(t, f.BeforeSave(nil))
	})
}
