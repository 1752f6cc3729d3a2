package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"user-auth/internal/database"
	"user-auth/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeUserRow 支援兩種 Scan 呼叫場景：
// 1) len(dest)==6 → GetUserByEmail / ListUsers
// 2) len(dest)==1 → CreateUser (created_at)
type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 6:
		*dest[0].(*string) = u.Email
		*dest[1].(*string) = u.PasswordHash
		*dest[2].(*string) = u.FirstName
		*dest[3].(*string) = u.LastName
		*dest[4].(*bool) = u.IsAdmin
		*dest[5].(*time.Time) = u.CreatedAt
	case 1:
		*dest[0].(*time.Time) = u.CreatedAt
	default:
		panic("fakeUserRow.Scan: unexpected dest count")
	}
	return nil
}

type fakeRows struct {
	users  []model.User
	idx    int
	err    error
	closed *bool
}

func (r *fakeRows) Close() {
	if r.closed != nil {
		*r.closed = true
	}
}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool {
	if r.idx >= len(r.users) {
		return false
	}
	r.idx++
	return true
}
func (r *fakeRows) Scan(dest ...any) error {
	u := r.users[r.idx-1]
	return (&fakeUserRow{user: &u}).Scan(dest...)
}
func (r *fakeRows) Values() ([]any, error) { return nil, nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

/* ---------- 完整測試 ---------- */

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	sample := &model.User{
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		FirstName:    "Alice",
		LastName:     "Liddell",
		IsAdmin:      true,
		CreatedAt:    now,
	}

	t.Run("GetUserByEmail success", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArgs = args
				return &fakeUserRow{user: sample}
			},
		}
		u, err := GetUserByEmail(context.Background(), db, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, []any{"alice@example.com"}, gotArgs)
		require.Equal(t, "Alice", u.FirstName)
		require.Equal(t, "hash123", u.PasswordHash)
		require.True(t, u.IsAdmin)
	})

	t.Run("GetUserByEmail not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return database.RowFunc(func(...any) error { return pgx.ErrNoRows })
			},
		}
		u, err := GetUserByEmail(context.Background(), db, "bob@example.com")
		require.ErrorIs(t, err, ErrNotFound)
		require.Nil(t, u)
	})

	t.Run("GetUserByEmail driver error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return database.RowFunc(func(...any) error { return errors.New("conn refused") })
			},
		}
		_, err := GetUserByEmail(context.Background(), db, "bob@example.com")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNotFound)
		require.Contains(t, err.Error(), "GetUserByEmail")
	})

	t.Run("CreateUser success", func(t *testing.T) {
		newUser := &model.User{Email: "bob@example.com", PasswordHash: "pwdhash", FirstName: "Bob", LastName: "B"}
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Len(t, args, 5)
				require.Equal(t, false, args[4])
				return &fakeUserRow{user: &model.User{CreatedAt: now.Add(time.Hour)}}
			},
		}
		created, err := CreateUser(context.Background(), db, newUser)
		require.NoError(t, err)
		require.Equal(t, "bob@example.com", created.Email)
		require.WithinDuration(t, now.Add(time.Hour), created.CreatedAt, time.Second)
	})

	t.Run("CreateUser duplicate", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: &pgconn.PgError{Code: "23505"}}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{})
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("CreateUser error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("disk full")}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{})
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("ListUsers success", func(t *testing.T) {
		closed := false
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeRows{users: []model.User{*sample, {Email: "b@example.com"}}, closed: &closed}, nil
			},
		}
		users, err := ListUsers(context.Background(), db)
		require.NoError(t, err)
		require.Len(t, users, 2)
		require.Equal(t, "alice@example.com", users[0].Email)
		require.Equal(t, "b@example.com", users[1].Email)
		require.True(t, closed)
	})

	t.Run("ListUsers empty", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeRows{}, nil
			},
		}
		users, err := ListUsers(context.Background(), db)
		require.NoError(t, err)
		require.NotNil(t, users)
		require.Empty(t, users)
	})

	t.Run("ListUsers query error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return nil, errors.New("down")
			},
		}
		_, err := ListUsers(context.Background(), db)
		require.Error(t, err)
	})

	t.Run("ListUsers rows error closes rows", func(t *testing.T) {
		closed := false
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeRows{err: errors.New("broken pipe"), closed: &closed}, nil
			},
		}
		_, err := ListUsers(context.Background(), db)
		require.Error(t, err)
		require.True(t, closed)
	})
}
