// pkg/database/postgres.go
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dailyworker/pkg/config"
	"dailyworker/pkg/model"
)

// DB 数据库连接
type DB struct {
	db *gorm.DB
}

// NewDB 建立Postgres连接并迁移表结构
func NewDB(cfg *config.Config) (*DB, error) {
	pg := cfg.Database.Postgres

	// 构建连接字符串
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.User, pg.Password, pg.DBName, pg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 设置连接池参数
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// 自动迁移
	if err := db.AutoMigrate(
		&model.EventCandidate{},
		&model.Topic{},
		&model.Article{},
		&model.ArticleRevision{},
		&model.Correction{},
		&model.Source{},
		&model.SourceReliabilityLog{},
		&model.Mention{},
		&model.NotificationRecord{},
	); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	return &DB{db: db}, nil
}

// Close 关闭数据库连接
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
