package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cutspace_v1_202509/internal/config"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
	"cutspace_v1_202509/internal/service"
	"cutspace_v1_202509/pkg/telegram"
)

const testBotToken = "1234567890:TEST_TOKEN_abcdefghijklmnopqrstuv"

func setupAuthRouter(t *testing.T, devMode bool) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	cfg := &config.Config{
		BotToken:         testBotToken,
		DevMode:          devMode,
		AdminTelegramIDs: map[int64]struct{}{999: {}},
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		InitDataMaxAge:   time.Hour,
	}
	authSvc := service.NewAuthService(repository.NewUserRepository(db), cfg)

	r := gin.New()
	r.GET("/me", TelegramAuth(authSvc, cfg), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
			"telegram_id": user.TelegramID,
			"role":        user.Role,
		}})
	})
	r.GET("/admin", TelegramAuth(authSvc, cfg), RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 200})
	})

	return r, authSvc
}

func validInitData(telegramID int64, authDate int64) string {
	vals := url.Values{}
	vals.Set("user", fmt.Sprintf(`{"id":%d,"first_name":"Ali"}`, telegramID))
	vals.Set("auth_date", fmt.Sprintf("%d", authDate))
	vals.Set("hash", telegram.SignInitData(vals, testBotToken))
	return vals.Encode()
}

func doRequest(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== 认证 ====================

func TestTelegramAuth_NoCredentials(t *testing.T) {
	r, _ := setupAuthRouter(t, false)

	w := doRequest(r, "/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", w.Code)
	}
}

func TestTelegramAuth_ValidInitData(t *testing.T) {
	r, _ := setupAuthRouter(t, false)

	w := doRequest(r, "/me", map[string]string{
		HeaderInitData: validInitData(42, time.Now().Unix()),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestTelegramAuth_StaleInitData(t *testing.T) {
	r, _ := setupAuthRouter(t, false)

	// 签名合法但 2 小时前的数据
	w := doRequest(r, "/me", map[string]string{
		HeaderInitData: validInitData(42, time.Now().Add(-2*time.Hour).Unix()),
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", w.Code)
	}
}

func TestTelegramAuth_ForgedInitData(t *testing.T) {
	r, _ := setupAuthRouter(t, false)

	vals := url.Values{}
	vals.Set("user", `{"id":42,"first_name":"Ali"}`)
	vals.Set("auth_date", fmt.Sprintf("%d", time.Now().Unix()))
	vals.Set("hash", "deadbeef")

	w := doRequest(r, "/me", map[string]string{HeaderInitData: vals.Encode()})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", w.Code)
	}
}

func TestTelegramAuth_BearerToken(t *testing.T) {
	r, authSvc := setupAuthRouter(t, false)

	// 先通过 initData 登录拿 Token
	resp, err := authSvc.LoginWithInitData(httptest.NewRequest("GET", "/", nil).Context(), validInitData(42, time.Now().Unix()))
	if err != nil {
		t.Fatalf("login error = %v", err)
	}

	w := doRequest(r, "/me", map[string]string{"Authorization": "Bearer " + resp.Token})
	if w.Code != http.StatusOK {
		t.Errorf("code = %d, body = %s", w.Code, w.Body.String())
	}

	// 坏 Token
	w = doRequest(r, "/me", map[string]string{"Authorization": "Bearer garbage"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", w.Code)
	}
}

func TestTelegramAuth_BareIDOnlyInDevMode(t *testing.T) {
	// 生产模式：裸 id 不认
	r, _ := setupAuthRouter(t, false)
	w := doRequest(r, "/me", map[string]string{HeaderTelegramID: "42"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("生产模式 code = %d, want 401", w.Code)
	}

	// 开发模式：放行
	r, _ = setupAuthRouter(t, true)
	w = doRequest(r, "/me", map[string]string{HeaderTelegramID: "42"})
	if w.Code != http.StatusOK {
		t.Errorf("开发模式 code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestTelegramAuth_BareIDKeepsProfile(t *testing.T) {
	// 开发模式裸 id 请求不能把已存的资料冲掉
	r, authSvc := setupAuthRouter(t, true)
	ctx := httptest.NewRequest("GET", "/", nil).Context()

	if _, err := authSvc.LoginWithInitData(ctx, validInitData(42, time.Now().Unix())); err != nil {
		t.Fatalf("login error = %v", err)
	}

	w := doRequest(r, "/me", map[string]string{HeaderTelegramID: "42"})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}

	user, err := authSvc.ResolveIdentity(ctx, telegram.WebAppUser{ID: 42})
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if user.FirstName != "Ali" {
		t.Errorf("first_name = %q, want Ali（裸 id 不回写资料）", user.FirstName)
	}
}

// ==================== 角色 ====================

func TestRequireRole_AdminOnly(t *testing.T) {
	r, _ := setupAuthRouter(t, false)

	// telegram id 999 在白名单里
	w := doRequest(r, "/admin", map[string]string{
		HeaderInitData: validInitData(999, time.Now().Unix()),
	})
	if w.Code != http.StatusOK {
		t.Errorf("admin code = %d, body = %s", w.Code, w.Body.String())
	}

	// 普通用户被拒
	w = doRequest(r, "/admin", map[string]string{
		HeaderInitData: validInitData(42, time.Now().Unix()),
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("customer code = %d, want 403", w.Code)
	}
}
