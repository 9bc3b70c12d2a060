package works_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"artist-portfolio/internal/domain/works"
	"artist-portfolio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func newStore(t *testing.T, opts ...works.StoreOption) *works.Store {
	t.Helper()
	return works.NewStore(testutil.OpenDB(t, &works.Work{}), opts...)
}

func TestCreateValidates(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Create(ctx, &works.Work{Type: "sculptures", Titre: "X"}), works.ErrInvalidType)
	assert.ErrorIs(t, s.Create(ctx, &works.Work{Type: works.TypeCroquis, Titre: "  "}), works.ErrEmptyTitle)

	w := &works.Work{Type: works.TypeCroquis, Titre: "Étude"}
	require.NoError(t, s.Create(ctx, w))
	assert.NotZero(t, w.ID)
	assert.False(t, w.IsSold)
	assert.Zero(t, w.DisplayOrder)
}

func TestListOrderAndFilters(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	seed := []works.Work{
		{Type: works.TypePeintures, Titre: "B", DisplayOrder: 1},
		{Type: works.TypePeintures, Titre: "A", DisplayOrder: 0, IsFeatured: true},
		{Type: works.TypePeintures, Titre: "C", DisplayOrder: 1},
		{Type: works.TypeCroquis, Titre: "D"},
	}
	for i := range seed {
		require.NoError(t, s.Create(ctx, &seed[i]))
	}

	got, err := s.List(ctx, works.ListFilter{Type: works.TypePeintures})
	require.NoError(t, err)
	titles := make([]string, 0, len(got))
	for _, w := range got {
		titles = append(titles, w.Titre)
	}
	// Same display_order: newest first.
	assert.Equal(t, []string{"A", "C", "B"}, titles)

	featured := true
	got, err = s.List(ctx, works.ListFilter{Featured: &featured})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Titre)

	got, err = s.List(ctx, works.ListFilter{Type: works.TypeEvenements})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpdatePartial(t *testing.T) {
	later := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newStore(t, works.WithClock(func() time.Time { return later }))
	ctx := context.Background()

	d := works.NewDate(2024, time.March, 15)
	w := &works.Work{
		Type:        works.TypePeintures,
		Titre:       "Old",
		Description: strp("keep me"),
		Prix:        strp("300"),
		Lieu:        strp("Lyon"),
		Date:        &d,
	}
	require.NoError(t, s.Create(ctx, w))

	var p works.Patch
	require.NoError(t, json.Unmarshal([]byte(`{
		"titre": "New",
		"prix": null,
		"lieu": "",
		"is_sold": true,
		"type": "croquis"
	}`), &p))

	got, err := s.Update(ctx, w.ID, p)
	require.NoError(t, err)

	assert.Equal(t, "New", got.Titre)
	assert.Equal(t, works.TypePeintures, got.Type)
	assert.Nil(t, got.Prix)
	assert.Nil(t, got.Lieu)
	require.NotNil(t, got.Description)
	assert.Equal(t, "keep me", *got.Description)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2024-03-15", got.Date.String())
	assert.True(t, got.IsSold)
	assert.True(t, got.UpdatedAt.Equal(later), "updated_at = %v", got.UpdatedAt)
}

func TestUpdateEmptyPatchRefreshesTimestamp(t *testing.T) {
	later := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newStore(t, works.WithClock(func() time.Time { return later }))
	ctx := context.Background()

	w := &works.Work{Type: works.TypeCroquis, Titre: "Same"}
	require.NoError(t, s.Create(ctx, w))

	got, err := s.Update(ctx, w.ID, works.Patch{})
	require.NoError(t, err)
	assert.Equal(t, "Same", got.Titre)
	assert.True(t, got.UpdatedAt.Equal(later))
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var p works.Patch
	require.NoError(t, json.Unmarshal([]byte(`{"titre": null}`), &p))
	_, err := s.Update(ctx, 1, p)
	assert.ErrorIs(t, err, works.ErrEmptyTitle)
}

func TestMissingWork(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, 42)
	assert.ErrorIs(t, err, works.ErrNotFound)

	_, err = s.Update(ctx, 42, works.Patch{})
	assert.ErrorIs(t, err, works.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, 42), works.ErrNotFound)

	ok, err := s.Exists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	w := &works.Work{Type: works.TypeEvenements, Titre: "Vernissage"}
	require.NoError(t, s.Create(ctx, w))
	require.NoError(t, s.Delete(ctx, w.ID))

	_, err := s.Get(ctx, w.ID)
	assert.ErrorIs(t, err, works.ErrNotFound)
}
