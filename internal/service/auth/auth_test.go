package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/agentxhq/agentx/internal/config"
	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/types"
)

type mockAuthRepo struct {
	users map[string]*model.User
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{users: make(map[string]*model.User)}
}

func (m *mockAuthRepo) CreateUser(u *model.User) error { m.users[u.ID] = u; return nil }
func (m *mockAuthRepo) GetUserByID(id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}
func (m *mockAuthRepo) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}
func (m *mockAuthRepo) GetUserByUsername(username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}
func (m *mockAuthRepo) UpdateUser(u *model.User) error { m.users[u.ID] = u; return nil }

func newTestService() (*Service, *mockAuthRepo) {
	repo := newMockAuthRepo()
	cfg := &config.AuthConfig{JWTSecret: "test-secret", TokenExpireMinutes: 60}
	return NewService(&repository.Repositories{Auth: repo}, cfg), repo
}

func register(t *testing.T, svc *Service) *model.UserInfo {
	t.Helper()
	info, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return info
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService()

	info := register(t, svc)
	if info.Username != "alice" || info.Email != "alice@example.com" {
		t.Errorf("UserInfo = %+v", info)
	}

	stored := repo.users[info.ID]
	if stored == nil {
		t.Fatalf("user was not persisted")
	}
	if stored.PasswordHash == "secret123" || stored.PasswordHash == "" {
		t.Errorf("password must be stored hashed")
	}
	if !stored.IsActive {
		t.Errorf("new user should be active")
	}
	if stored.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", stored.Role, model.RoleUser)
	}
}

func TestRegister_DuplicateEmailAndUsername(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("duplicate email error = %v, want validation error", err)
	}

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("duplicate username error = %v, want validation error", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" {
		t.Errorf("login should return a token")
	}
	if resp.User == nil || resp.User.Email != "alice@example.com" {
		t.Errorf("login response user = %+v", resp.User)
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, repo := newTestService()
	info := register(t, svc)

	tests := []struct {
		name     string
		email    string
		password string
		disable  bool
	}{
		{name: "wrong password", email: "alice@example.com", password: "wrong-pass"},
		{name: "unknown email", email: "nobody@example.com", password: "secret123"},
		{name: "disabled account", email: "alice@example.com", password: "secret123", disable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.users[info.ID].IsActive = !tt.disable

			_, err := svc.Login(context.Background(), &LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, types.ErrAccessDenied) {
				t.Errorf("Login() error = %v, want access denied", err)
			}
		})
	}
}

func TestValidateToken_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	info := register(t, svc)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	user, err := svc.ValidateToken(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if user.ID != info.ID {
		t.Errorf("token resolved to user %q, want %q", user.ID, info.ID)
	}
}

func TestValidateToken_Rejections(t *testing.T) {
	svc, repo := newTestService()
	info := register(t, svc)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), "not-a-jwt"); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("garbage token error = %v, want access denied", err)
	}

	// 换一个密钥签出的令牌不被接受
	otherSvc, _ := newTestService()
	otherSvc.cfg = &config.AuthConfig{JWTSecret: "another-secret", TokenExpireMinutes: 60}
	otherResp := mustLogin(t, otherSvc)
	if _, err := svc.ValidateToken(context.Background(), otherResp.Token); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("foreign-key token error = %v, want access denied", err)
	}

	// 停用账号的有效令牌同样被拒
	repo.users[info.ID].IsActive = false
	if _, err := svc.ValidateToken(context.Background(), resp.Token); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("disabled account token error = %v, want access denied", err)
	}
}

func mustLogin(t *testing.T, svc *Service) *LoginResponse {
	t.Helper()
	register(t, svc)
	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return resp
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	info := register(t, svc)

	if err := svc.ChangePassword(context.Background(), info.ID, "wrong-pass", "newsecret1"); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("wrong old password error = %v, want access denied", err)
	}

	if err := svc.ChangePassword(context.Background(), info.ID, "secret123", "newsecret1"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	// 旧密码失效，新密码生效
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "secret123"}); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("old password should no longer work, error = %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "newsecret1"}); err != nil {
		t.Errorf("new password login error = %v", err)
	}
}
