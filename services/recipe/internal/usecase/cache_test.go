package usecase

import (
	"context"
	"testing"
	"time"

	"recipe-blog/pkg/metrics"
	"recipe-blog/services/recipe/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestTopIngredients_ServedFromCache(t *testing.T) {
	f := newFixture(t)
	mr, client := newRedis(t)
	alice := f.user(t, "alice")
	f.published(t, alice, "a", "flour", "egg")
	uc := f.cachedPostUseCase(client, nil, nil)
	ctx := context.Background()

	hits := metrics.TopIngredientsCache.WithLabelValues("hit")
	misses := metrics.TopIngredientsCache.WithLabelValues("miss")
	hitsBefore, missesBefore := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	first, err := uc.TopIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(misses))
	assert.True(t, mr.Exists(topIngredientsKey))
	assert.Equal(t, time.Minute, mr.TTL(topIngredientsKey))

	// Written without the cache client, so the cached ranking goes stale.
	f.draft(t, alice, "b", "sugar")

	second, err := uc.TopIngredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(hits))
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(misses))
}

func TestTopIngredients_MalformedCacheFallsBack(t *testing.T) {
	f := newFixture(t)
	mr, client := newRedis(t)
	alice := f.user(t, "alice")
	f.published(t, alice, "a", "flour")
	require.NoError(t, mr.Set(topIngredientsKey, "not json"))

	top, err := f.cachedPostUseCase(client, nil, nil).TopIngredients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.IngredientUsage{{Name: "flour", Total: 1}}, top)

	cached, err := mr.Get(topIngredientsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"flour","total":1}]`, cached)
}

func TestPostWritesInvalidateTopIngredients(t *testing.T) {
	f := newFixture(t)
	mr, client := newRedis(t)
	alice := f.user(t, "alice")
	uc := f.cachedPostUseCase(client, nil, nil)
	ctx := context.Background()

	warm := func() {
		t.Helper()
		_, err := uc.TopIngredients(ctx)
		require.NoError(t, err)
		require.True(t, mr.Exists(topIngredientsKey))
	}

	warm()
	post, err := uc.CreatePost(ctx, alice, PostInput{Title: "Soup", Difficulty: "E", Ingredients: []string{"leek"}}, nil)
	require.NoError(t, err)
	assert.False(t, mr.Exists(topIngredientsKey), "create must drop the cached ranking")

	top, err := uc.TopIngredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.IngredientUsage{{Name: "leek", Total: 1}}, top)

	_, err = uc.UpdatePost(ctx, post.ID, alice, PostInput{Title: "Soup", Difficulty: "E", Ingredients: []string{"carrot"}})
	require.NoError(t, err)
	assert.False(t, mr.Exists(topIngredientsKey), "update must drop the cached ranking")

	warm()
	require.NoError(t, uc.DeletePost(ctx, post.ID, alice))
	assert.False(t, mr.Exists(topIngredientsKey), "delete must drop the cached ranking")
}
