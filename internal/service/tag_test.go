package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
)

func TestTagListAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewTagService(db)

	breakfast := seedTag(t, db, "Breakfast", "breakfast")
	seedTag(t, db, "Dinner", "dinner")

	tags, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	got, err := svc.Get(context.Background(), breakfast.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Slug)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrTagNotFound)
}

func TestNormalizeColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"49B64E", "49B64E"},
		{"#49B64E", "49B64E"},
		{"abcdef", "abcdef"},
	} {
		got, err := service.NormalizeColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	for _, in := range []string{"", "#", "49B64", "49B64EF", "49B64G", "#xyzxyz"} {
		_, err := service.NormalizeColor(in)
		assert.ErrorIs(t, err, service.ErrInvalidColor, in)
	}
}
