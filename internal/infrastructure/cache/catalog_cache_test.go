package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/cache"
)

func TestCatalogCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCatalogCache(8, time.Minute)

	var got []entity.Province
	ok, err := c.Get(ctx, "provinces", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []entity.Province{{Code: 8, Description: "SINDH"}}
	require.NoError(t, c.Set(ctx, "provinces", want, 0))
	ok, err = c.Get(ctx, "provinces", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCatalogCache_Expira(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCatalogCache(8, 30*time.Millisecond)
	require.NoError(t, c.Set(ctx, "k", 1, 0))

	assert.Eventually(t, func() bool {
		var v int
		ok, _ := c.Get(ctx, "k", &v)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestLocker_ClaveOcupadaDevuelveConflicto(t *testing.T) {
	ctx := context.Background()
	l := cache.NewLocker()

	release, err := l.Acquire(ctx, "invoice:1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "invoice:1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	other, err := l.Acquire(ctx, "invoice:2")
	require.NoError(t, err)
	other()

	release()
	release()
	again, err := l.Acquire(ctx, "invoice:1")
	require.NoError(t, err)
	again()
}

func TestLocker_AcquireWaitEsperaLaLiberacion(t *testing.T) {
	ctx := context.Background()
	l := cache.NewLocker()

	release, err := l.Acquire(ctx, "seller:s1")
	require.NoError(t, err)

	got := make(chan error, 1)
	go func() {
		r, err := l.AcquireWait(ctx, "seller:s1")
		if err == nil {
			r()
		}
		got <- err
	}()

	select {
	case <-got:
		t.Fatal("AcquireWait no debe volver con la clave tomada")
	case <-time.After(30 * time.Millisecond):
	}
	release()
	select {
	case err := <-got:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("AcquireWait no despertó tras la liberación")
	}
}

func TestLocker_AcquireWaitRespetaElContexto(t *testing.T) {
	l := cache.NewLocker()
	release, err := l.Acquire(context.Background(), "seller:s1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.AcquireWait(ctx, "seller:s1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
