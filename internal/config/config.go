package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ==================== Config 进程配置 ====================

// Config 进程级配置，启动时读取一次，运行期只读
type Config struct {
	// 服务
	ServerPort string
	GinMode    string // debug | release
	DevMode    bool   // 开发模式：允许未签名的身份声明，生产环境必须关闭

	// 数据库
	DatabaseDSN string

	// Telegram
	BotToken    string
	AdminChatID int64  // 新预约通知的群/管理员 chat
	WebAppURL   string // Mini App 地址，bot 按钮用

	// 管理员白名单（telegram id 集合），进程生命周期内静态
	AdminTelegramIDs map[int64]struct{}

	// 会话 Token
	JWTSecret string
	JWTTTL    time.Duration

	// initData 有效期
	InitDataMaxAge time.Duration

	// 存储
	StorageProvider string // "s3" | "local"
	StorageBucket   string
	StorageRegion   string
	StorageAccess   string
	StorageSecret   string
	StorageCDN      string
	StorageBasePath string
	StorageBaseURL  string // local 模式下上传文件的对外 URL 前缀

	// 待处理预约的过期时间（后台任务用）
	BookingExpireAfter time.Duration
}

// 白名单为空时的内置默认管理员 id
const defaultAdminTelegramID int64 = 5928372261

// Load 从环境变量加载配置（.env 文件存在时先读入）
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("未找到 .env 文件，直接读环境变量: %v", err)
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		DevMode:     getEnv("CUTSPACE_DEV_MODE", "") == "true",
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=cutspace password=cutspace dbname=cutspace port=5432 sslmode=disable"),

		BotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebAppURL: getEnv("WEB_APP_URL", "https://cutspace.onrender.com"),

		JWTSecret: getEnv("JWT_SECRET", "cutspace-secret-key-change-in-production"),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		InitDataMaxAge: getDuration("INIT_DATA_MAX_AGE", time.Hour),

		StorageProvider: getEnv("STORAGE_PROVIDER", "local"),
		StorageBucket:   os.Getenv("AWS_BUCKET"),
		StorageRegion:   os.Getenv("AWS_REGION"),
		StorageAccess:   os.Getenv("AWS_ACCESS_KEY_ID"),
		StorageSecret:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		StorageCDN:      os.Getenv("AWS_CDN_DOMAIN"),
		StorageBasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		StorageBaseURL:  getEnv("STORAGE_BASE_URL", "/uploads"),

		BookingExpireAfter: getDuration("BOOKING_EXPIRE_AFTER", 48*time.Hour),
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("TELEGRAM_CHAT_ID 不是合法数字，忽略: %q", raw)
		} else {
			cfg.AdminChatID = id
		}
	}

	cfg.AdminTelegramIDs = parseAdminIDs(os.Getenv("ADMIN_TELEGRAM_IDS"))

	return cfg
}

// parseAdminIDs 解析逗号分隔的管理员 telegram id 列表
// 为空或全部非法时回退到内置默认 id
func parseAdminIDs(raw string) map[int64]struct{} {
	ids := make(map[int64]struct{})

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			log.Printf("跳过非法管理员 id: %q", part)
			continue
		}
		ids[id] = struct{}{}
	}

	if len(ids) == 0 {
		ids[defaultAdminTelegramID] = struct{}{}
	}
	return ids
}

// IsAdminTelegramID 判断 telegram id 是否在管理员白名单
func (c *Config) IsAdminTelegramID(id int64) bool {
	_, ok := c.AdminTelegramIDs[id]
	return ok
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("%s 不是合法时长，使用默认值: %q", key, raw)
		return defaultValue
	}
	return d
}
