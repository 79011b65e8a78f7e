package config

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	DBDriver     string // mysql 或 memory
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	HTTPAddr     string
	JWTSecret    string
	LogLevel     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FrontendURL  string
	// 来源记录离开可计数状态时是否撤回对应的影响点
	ImpactRetractOnRegression bool
	Debug                     bool // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置
func Init() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	AppConfig = Load()

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("应用程序运行在生产模式")
	}

	log.Printf("配置加载完成。驱动：%s，数据库：%s:%s", AppConfig.DBDriver, AppConfig.DBHost, AppConfig.DBPort)
}

// Load 从环境变量中读取配置，不做校验
func Load() Config {
	return Config{
		DBDriver:                  getEnv("DB_DRIVER", "mysql"),
		DBHost:                    getEnv("DB_HOST", ""),
		DBPort:                    getEnv("DB_PORT", "3306"),
		DBUser:                    getEnv("DB_USER", ""),
		DBPassword:                getEnv("DB_PASSWORD", ""),
		DBName:                    getEnv("DB_NAME", ""),
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:                 getEnv("JWT_SECRET", ""),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		SMTPHost:                  getEnv("SMTP_HOST", ""),
		SMTPPort:                  getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:              getEnv("SMTP_USERNAME", ""),
		SMTPPassword:              getEnv("SMTP_PASSWORD", ""),
		FrontendURL:               getEnv("FRONTEND_URL", "http://localhost:5173"),
		ImpactRetractOnRegression: getEnvAsBool("IMPACT_RETRACT_ON_REGRESSION", false),
		Debug:                     getEnvAsBool("DEBUG", false),
	}
}

// DSN 返回 MySQL 连接字符串
func (c Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName +
		"?charset=utf8mb4&parseTime=True&loc=Local"
}

// SMTPEnabled 判断是否配置了邮件发送
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig() {
	switch AppConfig.DBDriver {
	case "mysql":
		if AppConfig.DBHost == "" || AppConfig.DBUser == "" || AppConfig.DBName == "" {
			log.Fatal("错误：数据库配置不完整")
		}
	case "memory":
	default:
		log.Fatalf("错误：未知的数据库驱动 %q", AppConfig.DBDriver)
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("错误：JWT密钥未设置")
	}
}
