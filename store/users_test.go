// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/expert-qa/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	users := NewUserStore(conn)
	ctx := context.Background()

	created, err := users.Create(ctx, "alice", "hash-a")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.Expert)
	assert.False(t, created.Admin)

	byName, err := users.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "hash-a", byName.PasswordHash)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Name)

	_, err = users.GetByName(ctx, "Alice")
	assert.ErrorIs(t, err, ErrNotFound, "names are case-sensitive")

	_, err = users.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_CreateDuplicate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	users := NewUserStore(conn)
	ctx := context.Background()

	_, err := users.Create(ctx, "alice", "hash-a")
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice", "hash-b")
	assert.ErrorIs(t, err, ErrDuplicateName)

	// the original row is untouched
	u, err := users.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-a", u.PasswordHash)
}

func TestUserStore_ConcurrentCreate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	users := NewUserStore(conn)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Create(ctx, "racer", "hash")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateName)
	}
	assert.Equal(t, 1, succeeded)
}

func TestUserStore_Exists(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	users := NewUserStore(conn)
	ctx := context.Background()

	ok, err := users.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	testutil.CreateTestUser(t, conn, "bob", "pw", false, false)

	ok, err = users.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserStore_ListAndExperts(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	users := NewUserStore(conn)
	ctx := context.Background()

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)

	alice := testutil.CreateTestUser(t, conn, "alice", "pw", false, true)
	bob := testutil.CreateTestUser(t, conn, "bob", "pw", true, false)
	carol := testutil.CreateTestUser(t, conn, "carol", "pw", true, false)

	all, err = users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{alice, bob, carol}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.True(t, all[0].Admin)
	assert.Empty(t, all[0].PasswordHash)

	experts, err := users.ListExperts(ctx)
	require.NoError(t, err)
	require.Len(t, experts, 2)
	assert.Equal(t, "bob", experts[0].Name)
	assert.Equal(t, "carol", experts[1].Name)
}

func TestUserStore_ToggleExpert(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	users := NewUserStore(conn)
	ctx := context.Background()

	id := testutil.CreateTestUser(t, conn, "bob", "pw", false, false)

	require.NoError(t, users.ToggleExpert(ctx, id))
	assert.True(t, testutil.IsExpert(t, conn, id))

	require.NoError(t, users.ToggleExpert(ctx, id))
	assert.False(t, testutil.IsExpert(t, conn, id))

	assert.ErrorIs(t, users.ToggleExpert(ctx, id+100), ErrNotFound)
}

func TestUserStore_SetAdmin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	users := NewUserStore(conn)
	ctx := context.Background()

	testutil.CreateTestUser(t, conn, "root", "pw", false, false)

	require.NoError(t, users.SetAdmin(ctx, "root", true))
	u, err := users.GetByName(ctx, "root")
	require.NoError(t, err)
	assert.True(t, u.Admin)

	assert.ErrorIs(t, users.SetAdmin(ctx, "nobody", true), ErrNotFound)
}

func TestUserStore_DatabaseErrors(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	users := NewUserStore(conn)
	ctx := context.Background()
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, password, expert, admin FROM users WHERE name = ?")).
		WithArgs("alice").
		WillReturnError(boom)
	_, err = users.GetByName(ctx, "alice")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET expert = NOT expert WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnError(boom)
	assert.ErrorIs(t, users.ToggleExpert(ctx, 3), boom)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, expert, admin FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "expert", "admin"}).
			AddRow(1, "alice", false, false).
			RowError(0, boom))
	_, err = users.List(ctx)
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
