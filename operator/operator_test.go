package operator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxrt/fluxrt/id"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/value"
)

func TestCallContextKeyEmptyVsNil(t *testing.T) {
	var nilCtx operator.CallContext
	emptyCtx := operator.CallContext{}
	require.Equal(t, nilCtx.Key(), emptyCtx.Key())
}

func TestCallContextKeyDistinguishesTags(t *testing.T) {
	a := operator.CallContext{1, 2}
	b := operator.CallContext{1, 3}
	require.NotEqual(t, a.Key(), b.Key())

	c := operator.CallContext{1, 2}
	require.Equal(t, a.Key(), c.Key())
}

func TestEvalContextWithMethodsDoNotMutateOriginal(t *testing.T) {
	base := operator.NewEvalContext(nil)
	derived := base.WithLocalTime(5).WithFXTime(2).WithCallContext(7)

	require.Equal(t, float64(0), base.LocalTime())
	require.Equal(t, float64(5), derived.LocalTime())
	require.Equal(t, float64(2), derived.FXTime())
	require.Equal(t, operator.CallContext{7}, derived.CallContext())
	require.Empty(t, base.CallContext())
}

func TestEvalContextResolveUsesInjectedResolver(t *testing.T) {
	target := id.New()
	ctx := operator.NewEvalContext(func(n id.NodeID, out int) value.Value {
		if n == target && out == 2 {
			return value.NewFloat(42)
		}
		return value.NewFloat(-1)
	})

	got := ctx.Resolve(target, 2)
	f, ok := got.AsFloat()
	require.True(t, ok)
	require.Equal(t, float32(42), f)
}

func TestEvalContextResolveWithNilResolverReturnsZeroValue(t *testing.T) {
	ctx := operator.NewEvalContext(nil)
	got := ctx.Resolve(id.New(), 0)
	require.Equal(t, value.Value{}, got)
}
