package gormstore

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2，按database.driver选择MySQL/MariaDB、PostgreSQL或SQLite
// 2. 单用户命令行程序，连接池默认只保留1个连接，进程退出时由cleanup释放
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. auto_migrate开启时自动建表（已有books库时保持关闭）
func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, func(), error) {
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	logLevel := logger.Silent
	if cfg.App.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // 唯一索引冲突转换为gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Error("关闭数据库连接失败", slog.Any("error", err))
			return
		}
		log.Debug("数据库连接已关闭")
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		cleanup()
		return nil, nil, apperrors.WrapCode(err, apperrors.ErrCodeStoreUnavailable, "数据库连接测试失败")
	}

	log.Info("数据库连接成功",
		slog.String("driver", cfg.Database.Driver),
		slog.String("dbname", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, cleanup, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// 注意：只会建表、加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&TitleModel{},
		&AuthorModel{},
		&AuthorISBNModel{},
	)
}

// TitleModel titles表
// 列名沿用既有books库的驼峰命名（editionNumber），不走GORM的默认蛇形转换
type TitleModel struct {
	ISBN          string `gorm:"column:isbn;primaryKey;size:20"`
	Title         string `gorm:"column:title;size:500;not null"`
	EditionNumber int    `gorm:"column:editionNumber;not null"`
	Copyright     string `gorm:"column:copyright;size:10"`
}

// TableName 指定表名
func (TitleModel) TableName() string {
	return "titles"
}

// AuthorModel authors表
// authorID由数据库自增分配
type AuthorModel struct {
	AuthorID  int    `gorm:"column:authorID;primaryKey;autoIncrement"`
	FirstName string `gorm:"column:firstName;size:30;not null"`
	LastName  string `gorm:"column:lastName;size:30;not null"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// AuthorISBNModel authorISBN关系表
// 没有主键和唯一约束，重复行由加载时的幂等关联吸收
type AuthorISBNModel struct {
	AuthorID int    `gorm:"column:authorID;not null;index"`
	ISBN     string `gorm:"column:isbn;size:20;not null;index"`
}

// TableName 指定表名
func (AuthorISBNModel) TableName() string {
	return "authorISBN"
}
