package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fletero/fletero/internal/pkg/logger"
	"github.com/fletero/fletero/internal/pkg/models"
)

func newTestLogger(t *testing.T) *logger.ZapLogger {
	zl, err := logger.NewZapLogger(models.LoggerConfig{Level: "error"})
	require.NoError(t, err)
	return zl
}

func TestShutdownManagerRunsInRegistrationOrder(t *testing.T) {
	sm := NewShutdownManager(newTestLogger(t))

	var order []string
	sm.Register(func(context.Context) error {
		order = append(order, "consumer")
		return nil
	})
	sm.Register(func(context.Context) error {
		order = append(order, "bus")
		return nil
	})
	sm.Register(func(context.Context) error {
		order = append(order, "db")
		return nil
	})

	require.NoError(t, sm.Shutdown(context.Background()))
	assert.Equal(t, []string{"consumer", "bus", "db"}, order)
}

func TestShutdownManagerContinuesPastFailures(t *testing.T) {
	sm := NewShutdownManager(newTestLogger(t))

	var reached bool
	sm.Register(func(context.Context) error {
		return errors.New("connection already closed")
	})
	sm.Register(func(context.Context) error {
		reached = true
		return nil
	})

	require.NoError(t, sm.Shutdown(context.Background()))
	assert.True(t, reached)
}
