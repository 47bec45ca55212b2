package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	shutdownErr error
	closeErr    error
	closed      bool
}

func (f *fakeServer) Shutdown(context.Context) error { return f.shutdownErr }

func (f *fakeServer) Close() error {
	f.closed = true
	return f.closeErr
}

func TestStopServer(t *testing.T) {
	t.Run("clean shutdown", func(t *testing.T) {
		srv := &fakeServer{}
		require.NoError(t, stopServer(context.Background(), srv))
		assert.False(t, srv.closed)
	})

	t.Run("failed drain force closes and logs close error", func(t *testing.T) {
		hook := test.NewGlobal()
		t.Cleanup(hook.Reset)

		closeErr := errors.New("listener already closed")
		srv := &fakeServer{shutdownErr: context.DeadlineExceeded, closeErr: closeErr}

		err := stopServer(context.Background(), srv)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, srv.closed)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, closeErr, hook.LastEntry().Data[logrus.ErrorKey])
	})
}
