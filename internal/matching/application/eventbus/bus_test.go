package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{ ID string }

func TestInMemoryBus_TypedDelivery(t *testing.T) {
	bus := NewInMemoryBus()
	var got []string
	On(bus, func(ctx context.Context, evt sample) error {
		got = append(got, evt.ID)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), sample{ID: "a"}))
	require.NoError(t, bus.Publish(context.Background(), &sample{ID: "b"}))
	require.NoError(t, bus.Publish(context.Background(), "ignored"))

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestInMemoryBus_JoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus()
	errFirst := errors.New("first")
	calls := 0
	On(bus, func(ctx context.Context, evt sample) error {
		calls++
		return errFirst
	})
	On(bus, func(ctx context.Context, evt sample) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), sample{})

	assert.ErrorIs(t, err, errFirst)
	assert.Equal(t, 2, calls)
}

func TestInMemoryBus_NilEvent(t *testing.T) {
	assert.ErrorIs(t, NewInMemoryBus().Publish(context.Background(), nil), ErrNilEvent)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, TypeName(sample{}), TypeOf[sample]())
	assert.Equal(t, TypeName(&sample{}), TypeOf[sample]())
}
