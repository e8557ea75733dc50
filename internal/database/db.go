package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fyerfyer/adgm-compliance-system/internal/models"
)

// DB 全局数据库连接
var DB *gorm.DB

// Config 数据库配置
type Config struct {
	Type string // 数据库类型，目前支持sqlite
	DSN  string // 数据源名称
}

// logrusWriter 将gorm日志转发到logrus
type logrusWriter struct {
	log *logrus.Logger
}

// Printf 实现gorm的日志写入接口
func (w *logrusWriter) Printf(format string, args ...interface{}) {
	w.log.Tracef(format, args...)
}

// Init 初始化数据库连接并执行表迁移
func Init(config Config, log *logrus.Logger) error {
	if log == nil {
		log = logrus.New()
	}

	gormLogger := logger.New(
		&logrusWriter{log: log},
		logger.Config{
			LogLevel: logger.Warn,
		},
	)

	var dialector gorm.Dialector
	switch config.Type {
	case "sqlite", "":
		dsn := config.DSN
		if dsn == "" {
			dsn = "./data/compliance.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database type: %s", config.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	DB = db
	return nil
}

// autoMigrate 执行表结构迁移
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ReviewBatch{},
		&models.ReviewDocument{},
		&models.CorpusSource{},
	)
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

// Close 关闭数据库连接
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
