package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/config"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
	"cutspace_v1_202509/pkg/telegram"
)

// ==================== AuthService 身份服务 ====================

// AuthService 负责 initData 校验、用户解析和会话 Token
type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

// NewAuthService 创建身份服务
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// ==================== 登录 ====================

// LoginWithInitData 校验 initData 并换发会话 Token
// 签名不合法或过期直接拒绝，不落库
func (s *AuthService) LoginWithInitData(ctx context.Context, initData string) (*dto.AuthResponse, error) {
	tgUser, err := telegram.VerifyInitData(initData, s.cfg.BotToken, s.cfg.InitDataMaxAge)
	if err != nil {
		return nil, err
	}

	user, err := s.ResolveIdentity(ctx, tgUser)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserInfo(user),
	}, nil
}

// ResolveIdentity 把 Telegram 身份落到本地用户
// 幂等：首次创建，后续只同步资料；角色只升不降
func (s *AuthService) ResolveIdentity(ctx context.Context, tgUser telegram.WebAppUser) (*model.User, error) {
	if tgUser.ID <= 0 {
		return nil, ErrInvalidIdentity
	}

	user, err := s.userRepo.GetByTelegramID(ctx, tgUser.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &model.User{
			TelegramID: tgUser.ID,
			FirstName:  tgUser.FirstName,
			LastName:   tgUser.LastName,
			Username:   tgUser.Username,
			Role:       model.RoleCustomer,
		}
		if s.cfg.IsAdminTelegramID(tgUser.ID) {
			user.Role = model.RoleAdmin
		}

		err = s.userRepo.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		// 并发首次登录撞唯一索引：当成已存在，重读
		if !repository.IsDuplicateKey(err) {
			return nil, err
		}
		user, err = s.userRepo.GetByTelegramID(ctx, tgUser.ID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}

	changed := false

	// 资料跟随 Telegram 侧最新值
	// first_name 为空说明是只带 id 的合成身份（开发模式裸 id），不回写资料
	if tgUser.FirstName != "" {
		if tgUser.FirstName != user.FirstName {
			user.FirstName = tgUser.FirstName
			changed = true
		}
		if tgUser.LastName != user.LastName {
			user.LastName = tgUser.LastName
			changed = true
		}
	}
	if tgUser.Username != "" && tgUser.Username != user.Username {
		user.Username = tgUser.Username
		changed = true
	}

	// 白名单只做提升，绝不降级已有角色
	if s.cfg.IsAdminTelegramID(tgUser.ID) && user.Role != model.RoleAdmin {
		user.Role = model.RoleAdmin
		changed = true
	}

	if changed {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// ==================== 会话 Token ====================

// SessionClaims 会话 Token 载荷
type SessionClaims struct {
	UserID     int64  `json:"user_id"`
	TelegramID int64  `json:"telegram_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken 签发会话 Token
func (s *AuthService) IssueToken(user *model.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTTTL)

	claims := SessionClaims{
		UserID:     user.ID,
		TelegramID: user.TelegramID,
		Role:       user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "session",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken 解析并校验会话 Token
func (s *AuthService) ParseToken(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ==================== 用户管理 ====================

// GetUser 获取用户
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// SetRole 管理员改角色
// barber 必须带店铺绑定，其他角色绑定清零
func (s *AuthService) SetRole(ctx context.Context, userID int64, role string, barbershopID int64) (*model.User, error) {
	switch role {
	case model.RoleCustomer, model.RoleBarber, model.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if role != model.RoleBarber {
		barbershopID = 0
	} else if barbershopID == 0 {
		return nil, ErrBarberNeedsShop
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role, barbershopID); err != nil {
		return nil, err
	}

	user.Role = role
	user.BarbershopID = barbershopID
	return user, nil
}

// ListUsers 用户列表（管理端）
func (s *AuthService) ListUsers(ctx context.Context, req *dto.UserListRequest) (*dto.UserListResponse, error) {
	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Role:     req.Role,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*dto.UserInfo, len(users))
	for i := range users {
		list[i] = ToUserInfo(&users[i])
	}
	return &dto.UserListResponse{List: list, Total: total}, nil
}

// ==================== 辅助方法 ====================

// ToUserInfo 转换为 DTO
// telegram_id 走字符串，见 dto.UserInfo 注释
func ToUserInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:           user.ID,
		TelegramID:   formatTelegramID(user.TelegramID),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Username:     user.Username,
		Role:         user.Role,
		BarbershopID: user.BarbershopID,
		CreatedAt:    user.CreatedAt,
	}
}

func formatTelegramID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ==================== 错误定义 ====================

var (
	ErrInvalidIdentity = errors.New("Telegram 身份无效")
	ErrInvalidToken    = errors.New("Token 无效")
	ErrUserNotFound    = errors.New("用户不存在")
	ErrInvalidRole     = errors.New("角色不合法")
	ErrBarberNeedsShop = errors.New("理发师必须绑定店铺")
	ErrForbidden       = errors.New("无权操作")
)
