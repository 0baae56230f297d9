package errgroupx

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrgroupxCancelByReturnError(t *testing.T) {
	ctx := context.Background()
	g := WithContext(ctx)

	finished := make(chan bool, 1)
	g.Go(func(ctx context.Context) error {
		return fmt.Errorf("non nil error")
	})
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		finished <- true
		return nil
	})

	require.Error(t, g.Wait())
	require.True(t, <-finished)
	require.NoError(t, ctx.Err()) // Original context not canceled.
}

func TestErrgroupxWithLimitRunsAll(t *testing.T) {
	g := WithContext(context.Background()).WithLimit(2)

	var count atomic.Int64
	for i := 0; i < 10; i++ {
		g.Go(func(context.Context) error {
			count.Add(1)
			return nil
		})
	}

	require.NoError(t, g.Wait())
	require.Equal(t, int64(10), count.Load())
}

func TestErrgroupxCancel(t *testing.T) {
	g := WithContext(context.Background())

	finished := make(chan bool, 1)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		finished <- true
		return nil
	})

	g.Cancel()
	require.NoError(t, g.Wait())
	require.True(t, <-finished)
}
