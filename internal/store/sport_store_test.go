package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todoapp/internal/testutil"
)

func TestSports(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	sports, err := s.Sports(ctx)
	require.NoError(t, err)
	assert.Empty(t, sports)

	for _, title := range []string{"Cricket", "Football"} {
		sport, err := s.AddSport(ctx, title)
		require.NoError(t, err)
		assert.NotZero(t, sport.ID)
		assert.Equal(t, title, sport.Title)
	}

	sports, err = s.Sports(ctx)
	require.NoError(t, err)
	require.Len(t, sports, 2)
	assert.ElementsMatch(t, []string{"Cricket", "Football"}, []string{sports[0].Title, sports[1].Title})
}

func TestAddSportRequiresTitle(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.AddSport(context.Background(), " ")
	assert.Error(t, err)
}
