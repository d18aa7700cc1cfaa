package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"poketally/events"
	"poketally/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersistsChanges(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.UserRepository().Create(ctx, 100, "ash", "0001")
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	user, err := NewUserRepository(testDB.DB).GetByDiscordID(ctx, 100)
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestUnitOfWork_RollbackDiscardsChanges(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.UserRepository().Create(ctx, 100, "ash", "0001")
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	user, err := NewUserRepository(testDB.DB).GetByDiscordID(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUnitOfWork_EventsFlushOnlyAfterCommit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	bus := events.NewBus()
	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	var mu sync.Mutex
	var received []events.Event
	done := make(chan struct{}, 2)
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, e events.Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		done <- struct{}{}
	})

	// Rolled-back work publishes nothing.
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.UserCreatedEvent{UserID: 1, Username: "ghost"})
	require.NoError(t, uow.Rollback())

	// Committed work flushes.
	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.UserCreatedEvent{UserID: 2, Username: "ash"})
	require.NoError(t, uow.Commit())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for flushed event")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, int64(2), received[0].(events.UserCreatedEvent).UserID)
}

func TestUnitOfWork_RepositoryAccessBeforeBeginPanics(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.Create()

	assert.Panics(t, func() { uow.UserRepository() })
}
