package simcontext

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Enuma3lish/ultimus-sub000/internal/common/logging"
)

var defaultLogger = logrus.NewEntry(logging.NewNullLogger()).WithField("foo", "bar")

func TestNew(t *testing.T) {
	ctx := New(context.Background(), defaultLogger)
	require.Equal(t, defaultLogger, ctx.Log)
	require.Equal(t, context.Background(), ctx.Context)
}

func TestBackground(t *testing.T) {
	ctx := Background()
	require.Equal(t, ctx.Context, context.Background())
}

func TestWithLogField(t *testing.T) {
	ctx := WithLogField(New(context.Background(), logrus.NewEntry(logging.NewNullLogger())), "fish", "chips")
	require.Equal(t, context.Background(), ctx.Context)
	require.Equal(t, logrus.Fields{"fish": "chips"}, ctx.Log.Data)
}

func TestWithLogFields(t *testing.T) {
	ctx := WithLogFields(New(context.Background(), logrus.NewEntry(logging.NewNullLogger())), logrus.Fields{"fish": "chips", "salt": "pepper"})
	require.Equal(t, context.Background(), ctx.Context)
	require.Equal(t, logrus.Fields{"fish": "chips", "salt": "pepper"}, ctx.Log.Data)
}

func TestWithCancel(t *testing.T) {
	ctx, cancel := WithCancel(New(context.Background(), defaultLogger))
	cancel()
	<-ctx.Done()
	require.Equal(t, context.Canceled, ctx.Err())
	require.Equal(t, defaultLogger, ctx.Log)
}

func TestErrGroup(t *testing.T) {
	g, ctx := ErrGroup(New(context.Background(), defaultLogger))
	g.Go(func() error {
		return errors.New("foo")
	})
	require.EqualError(t, g.Wait(), "foo")
	<-ctx.Done()
	require.Equal(t, defaultLogger, ctx.Log)
}
