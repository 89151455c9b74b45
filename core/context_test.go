package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nstackio/netcore/core"
)

func TestContextCarriesStack(t *testing.T) {
	stack := core.New()
	ctx := core.WithStack(context.Background(), stack)

	require.Same(t, stack, core.FromContext(ctx))
	require.Same(t, stack, core.MustFromContext(ctx))
}

func TestFromContextWithoutStack(t *testing.T) {
	require.Nil(t, core.FromContext(context.Background()))
	require.Panics(t, func() {
		core.MustFromContext(context.Background())
	})
}
