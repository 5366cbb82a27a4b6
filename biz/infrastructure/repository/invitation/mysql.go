package invitation

import (
	"context"
	"database/sql"
	"fmt"

	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/util/log"

	_ "github.com/go-sql-driver/mysql"
)

type ILogMapper interface {
	Insert(ctx context.Context, l *Log) error
	ListByClass(ctx context.Context, classSlug string) ([]*Log, error)
}

type MySQLMapper struct {
	db *sql.DB
}

func NewMySQLMapper(config *config.Config) (*MySQLMapper, error) {
	db, err := sql.Open("mysql", config.MySQL.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	log.Info("MySQL connection established successfully")
	return &MySQLMapper{db: db}, nil
}

func (m *MySQLMapper) Close() error {
	return m.db.Close()
}

func (m *MySQLMapper) Insert(ctx context.Context, l *Log) error {
	query := `
		INSERT INTO invitation_logs (inviter, invitee, class_slug, role, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := m.db.ExecContext(ctx, query, l.Inviter, l.Invitee, l.ClassSlug, l.Role, l.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert invitation log: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		l.ID = id
	}
	return nil
}

func (m *MySQLMapper) ListByClass(ctx context.Context, classSlug string) ([]*Log, error) {
	query := `
		SELECT id, inviter, invitee, class_slug, role, timestamp
		FROM invitation_logs
		WHERE class_slug = ?
		ORDER BY timestamp DESC
	`
	rows, err := m.db.QueryContext(ctx, query, classSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitation logs: %w", err)
	}
	defer rows.Close()

	var logs []*Log
	for rows.Next() {
		l := new(Log)
		if err := rows.Scan(&l.ID, &l.Inviter, &l.Invitee, &l.ClassSlug, &l.Role, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan invitation log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
