package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// querier покрывает общие методы *sql.DB и *sql.Tx: репозитории работают
// одинаково как вне транзакции, так и внутри RunAtomic.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store оборачивает SQL-подключение к PostgreSQL и реализует domain.Store.
type Store struct {
	db *sql.DB
}

// Open открывает подключение к PostgreSQL и проверяет доступность базы.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Categories() domain.CategoryRepository { return &categoryRepository{q: s.db} }
func (s *Store) Products() domain.ProductRepository    { return &productRepository{q: s.db} }
func (s *Store) Customers() domain.CustomerRepository  { return &customerRepository{q: s.db} }
func (s *Store) Orders() domain.OrderRepository        { return &orderRepository{q: s.db} }
func (s *Store) Outbox() domain.OutboxRepository       { return &outboxRepository{q: s.db} }

// RunAtomic выполняет fn внутри одной транзакции: репозитории переданного
// store работают поверх *sql.Tx, ошибка из fn откатывает транзакцию целиком.
func (s *Store) RunAtomic(ctx context.Context, fn func(tx domain.Store) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&txStore{q: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// txStore — транзакционная проекция Store поверх открытого *sql.Tx.
type txStore struct {
	q *sql.Tx
}

func (t *txStore) Categories() domain.CategoryRepository { return &categoryRepository{q: t.q} }
func (t *txStore) Products() domain.ProductRepository    { return &productRepository{q: t.q} }
func (t *txStore) Customers() domain.CustomerRepository  { return &customerRepository{q: t.q} }
func (t *txStore) Orders() domain.OrderRepository        { return &orderRepository{q: t.q} }
func (t *txStore) Outbox() domain.OutboxRepository       { return &outboxRepository{q: t.q} }

// RunAtomic внутри транзакции присоединяется к уже открытой.
func (t *txStore) RunAtomic(ctx context.Context, fn func(tx domain.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t)
}

var (
	_ domain.Store = (*Store)(nil)
	_ domain.Store = (*txStore)(nil)
)
