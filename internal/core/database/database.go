package database

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/KeaPin/gameshare/internal/core/config"
	"github.com/KeaPin/gameshare/internal/core/logger"
)

var db *sqlx.DB

// Init Initialize database connection
// 所有仓储层 SQL 统一用 ? 占位符书写，查询前经 Rebind 转换成目标驱动的占位符
// （mysql 保持 ?，postgres 转成 $n），因此同一套 SQL 可以跑在两种引擎上。
func Init(cfg *config.DatabaseConfig) error {
	var err error

	db, err = sqlx.Connect(cfg.Driver, cfg.GetDSN())
	if err != nil {
		logger.Error("failed to connect database", logger.String("error", err.Error()))
		return err
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	logger.Info("database initialized successfully",
		logger.String("driver", cfg.Driver),
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Name))

	return nil
}

// Get Get database instance
func Get() *sqlx.DB {
	return db
}

// Close Close database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Ping Check database connection
func Ping() error {
	if db == nil {
		return nil
	}
	return db.Ping()
}

// Transaction 在单个事务里执行 fn
// BEGIN 后执行回调，出错 ROLLBACK，成功 COMMIT，连接交还池子由 sqlx 保证。
// 数据库错误原样向上传递。
func Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
