package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stonkbot/internal/models"
)

func TestNotifyLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	// Before any notify call the chat reads as disabled.
	h.service.HandleCommand(ctx, 42, "status", "", "/status")
	assert.Equal(t, []string{msgStatusDisabled}, h.messenger.texts())
	h.messenger.sent = nil

	h.service.HandleCommand(ctx, 42, "notify", "", "/notify")
	assert.Equal(t, []string{msgNotifyOn}, h.messenger.texts())
	h.messenger.sent = nil

	payloads := h.scheduler.ListByName("42")
	require.Len(t, payloads, 2)
	assert.Equal(t, models.ReportPremarket, payloads[0].Kind)
	assert.Equal(t, models.ReportAftermarket, payloads[1].Kind)
	assert.Equal(t, int64(42), payloads[0].ChatID)

	h.service.HandleCommand(ctx, 42, "status", "", "/status")
	assert.Equal(t, []string{msgStatusEnabled}, h.messenger.texts())
	h.messenger.sent = nil

	h.service.HandleCommand(ctx, 42, "disable", "", "/disable")
	assert.Equal(t, []string{msgNotifyOff}, h.messenger.texts())
	assert.Empty(t, h.scheduler.ListByName("42"))
	h.messenger.sent = nil

	h.service.HandleCommand(ctx, 42, "status", "", "/status")
	assert.Equal(t, []string{msgStatusDisabled}, h.messenger.texts())
}

func TestNotifyIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.service.HandleCommand(ctx, 42, "notify", "", "/notify")
	h.service.HandleCommand(ctx, 42, "notify", "", "/notify")
	h.service.HandleCommand(ctx, 42, "notify", "", "/notify")

	// Repeated enables replace the pair, never stack a third trigger.
	assert.Len(t, h.scheduler.ListByName("42"), 2)
}

func TestNotifyIsolatedPerChat(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.service.HandleCommand(ctx, 1, "notify", "", "/notify")
	h.service.HandleCommand(ctx, 2, "notify", "", "/notify")
	h.service.HandleCommand(ctx, 1, "disable", "", "/disable")

	assert.Empty(t, h.scheduler.ListByName("1"))
	assert.Len(t, h.scheduler.ListByName("2"), 2)
}

func TestNotifyStoreFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.store.failAll = true

	h.service.HandleCommand(context.Background(), 42, "notify", "", "/notify")

	assert.Equal(t, []string{msgStorageFailure}, h.messenger.texts())
	assert.Empty(t, h.scheduler.ListByName("42"), "triggers must not register when the flag cannot persist")
}

func TestRestoreNotifications(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	require.NoError(t, h.store.SetNotify(ctx, 7, true))
	require.NoError(t, h.store.SetNotify(ctx, 9, true))

	require.NoError(t, h.service.RestoreNotifications(ctx))

	assert.Len(t, h.scheduler.ListByName("7"), 2)
	assert.Len(t, h.scheduler.ListByName("9"), 2)
	assert.Empty(t, h.messenger.texts(), "restore must not message users")
}
