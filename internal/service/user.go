package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"user-auth/internal/database"
	"user-auth/internal/model"
	"user-auth/internal/store"

	"go.uber.org/zap"
)

var (
	getUserByEmail = store.GetUserByEmail
	createUser     = store.CreateUser
	listUsers      = store.ListUsers
)

// NewUser 建立使用者所需欄位
type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserService 協調 store、密碼雜湊與令牌簽發。
// 回傳的 *model.User 一律不含 PasswordHash。
type UserService struct {
	db       database.DB
	hasher   *PasswordHasher
	tokens   *TokenIssuer
	throttle *LoginThrottle
	log      *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db database.DB, hasher *PasswordHasher, tokens *TokenIssuer, throttle *LoginThrottle, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{db: db, hasher: hasher, tokens: tokens, throttle: throttle, log: log}
}

// NormalizeEmail 去除空白並轉小寫，使 email 唯一性不分大小寫
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) storeFailure(op string, err error) error {
	s.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
}

func withoutHash(u *model.User) *model.User {
	out := *u
	out.PasswordHash = ""
	return &out
}

// Register 建立一般使用者，is_admin 固定為 false
func (s *UserService) Register(ctx context.Context, in NewUser) (*model.User, error) {
	return s.create(ctx, in, false)
}

// CreateAsAdmin 由管理員建立使用者，isAdmin 依請求決定。
// HTTP 層應先確認 actor 為管理員，這裡再檢查一次。
func (s *UserService) CreateAsAdmin(ctx context.Context, actor *CustomClaims, in NewUser, isAdmin bool) (*model.User, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, ErrForbidden
	}
	return s.create(ctx, in, isAdmin)
}

func (s *UserService) create(ctx context.Context, in NewUser, isAdmin bool) (*model.User, error) {
	email := NormalizeEmail(in.Email)

	if _, err := getUserByEmail(ctx, s.db, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, s.storeFailure("register", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := createUser(ctx, s.db, &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsAdmin:      isAdmin,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		// 存在性檢查後被併發請求搶先插入
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, s.storeFailure("register", err)
	}
	return withoutHash(created), nil
}

// 未知 email 也跑一次 bcrypt，避免以回應時間區分帳號是否存在
func (s *UserService) verifyAgainstDummy(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("dummy-password")
		if err != nil {
			s.log.Warn("dummy hash failed", zap.Error(err))
		}
		s.dummyHash = h
	})
	s.hasher.Verify(password, s.dummyHash)
}

// Authenticate 驗證帳密並發行令牌。email 不存在與密碼錯誤回傳同一個 ErrInvalidCredentials。
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*Token, error) {
	email = NormalizeEmail(email)

	if !s.throttle.Allow(ctx, email) {
		return nil, ErrTooManyAttempts
	}

	user, err := getUserByEmail(ctx, s.db, email)
	if errors.Is(err, store.ErrNotFound) {
		s.verifyAgainstDummy(password)
		s.throttle.Fail(ctx, email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.storeFailure("authenticate", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.throttle.Fail(ctx, email)
		return nil, ErrInvalidCredentials
	}
	s.throttle.Reset(ctx, email)

	return s.tokens.Issue(user.Email, user.IsAdmin)
}

// FetchByEmail 唯讀查詢
func (s *UserService) FetchByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := getUserByEmail(ctx, s.db, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.storeFailure("fetch user", err)
	}
	return withoutHash(user), nil
}

// ListAll 僅限令牌宣告 is_admin 的呼叫者
func (s *UserService) ListAll(ctx context.Context, requestedBy *CustomClaims) ([]model.User, error) {
	if requestedBy == nil || !requestedBy.IsAdmin {
		return nil, ErrForbidden
	}
	users, err := listUsers(ctx, s.db)
	if err != nil {
		return nil, s.storeFailure("list users", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// EnsureAdmin 若 email 不存在則建立管理員；已存在的帳號不變動。回傳是否新建。
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.create(ctx, NewUser{Email: email, Password: password, FirstName: "Admin"}, true)
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
