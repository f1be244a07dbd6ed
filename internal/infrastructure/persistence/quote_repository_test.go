package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormQuoteRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	q := newQuoteWithItems(t, tenantID, "10.00", "20.00", "30.00")
	require.NoError(t, repo.Save(ctx, q))

	t.Run("loads items in order", func(t *testing.T) {
		got, err := repo.FindByIDForTenant(ctx, tenantID, q.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 3)
		for i, it := range got.Items {
			assert.Equal(t, i, it.OrderIndex)
		}
		assert.Equal(t, "Line A", got.Items[0].Description)
		assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(60)))
		assert.True(t, got.Total.Equal(decimal.RequireFromString("72.60")))
		assert.Equal(t, "Bakkerij Peeters", got.Client.Name)
	})

	t.Run("other tenant sees not found", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), q.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save replaces items", func(t *testing.T) {
		require.NoError(t, q.MoveItem(2, 0))
		require.NoError(t, q.RemoveItem(q.Items[2].ID))
		require.NoError(t, repo.Save(ctx, q))

		got, err := repo.FindByIDForTenant(ctx, tenantID, q.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "Line C", got.Items[0].Description)
		assert.Equal(t, "Line A", got.Items[1].Description)
		assert.Equal(t, 1, got.Items[1].OrderIndex)
		assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(40)))

		var count int64
		require.NoError(t, db.Table("quote_items").Where("quote_id = ?", q.ID).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})
}

func TestGormQuoteRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, newQuoteWithItems(t, tenantID, "10")))
	}
	sent := newQuoteWithItems(t, tenantID, "10")
	require.NoError(t, sent.TransitionTo(quote.StatusSent))
	require.NoError(t, repo.Save(ctx, sent))
	require.NoError(t, repo.Save(ctx, newQuoteWithItems(t, uuid.New(), "10")))

	filter := shared.DefaultFilter()
	all, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Empty(t, all[0].Items)

	filter.Filters["status"] = "sent"
	count, err := repo.CountForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	page := shared.DefaultFilter()
	page.PageSize = 2
	page.Page = 2
	second, err := repo.FindAllForTenant(ctx, tenantID, page)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}
