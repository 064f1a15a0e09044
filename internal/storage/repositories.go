package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/investor-scout/internal/model"
)

// CallRepository handles persistence of per-provider call tracking.
// Export the interface, hide the implementation — callers can swap in a mock
// without importing anything from the real one.
type CallRepository interface {
	Create(ctx context.Context, call *model.LLMCall) error
	Count(ctx context.Context) (int64, error)
	CountByProvider(ctx context.Context, provider string) (int64, error)
	FailureCount(ctx context.Context) (int64, error)
}

type sqliteCallRepository struct {
	db *sqlx.DB
}

// NewCallRepository creates a SQLite-backed CallRepository.
func NewCallRepository(db *sqlx.DB) CallRepository {
	return &sqliteCallRepository{db: db}
}

func (r *sqliteCallRepository) Create(ctx context.Context, call *model.LLMCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_calls (provider, model, success, duration_ms, error)
		VALUES (:provider, :model, :success, :duration_ms, :error)
	`, call)
	if err != nil {
		return fmt.Errorf("creating llm call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM llm_calls")
	return count, err
}

func (r *sqliteCallRepository) CountByProvider(ctx context.Context, provider string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM llm_calls WHERE provider = ?", provider)
	return count, err
}

func (r *sqliteCallRepository) FailureCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM llm_calls WHERE success = 0")
	return count, err
}

// SearchRepository persists the audit row for each finished search session.
type SearchRepository interface {
	Create(ctx context.Context, rec *model.SearchRecord) error
	Count(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.SearchRecord, error)
}

type sqliteSearchRepository struct {
	db *sqlx.DB
}

// NewSearchRepository creates a SQLite-backed SearchRepository.
func NewSearchRepository(db *sqlx.DB) SearchRepository {
	return &sqliteSearchRepository{db: db}
}

func (r *sqliteSearchRepository) Create(ctx context.Context, rec *model.SearchRecord) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO searches (query, deal_type, company_name, status, total_investors, avg_score)
		VALUES (:query, :deal_type, :company_name, :status, :total_investors, :avg_score)
	`, rec)
	if err != nil {
		return fmt.Errorf("creating search record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *sqliteSearchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM searches")
	return count, err
}

func (r *sqliteSearchRepository) ListRecent(ctx context.Context, limit int) ([]model.SearchRecord, error) {
	var recs []model.SearchRecord
	err := r.db.SelectContext(ctx, &recs,
		"SELECT * FROM searches ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent searches: %w", err)
	}
	return recs, nil
}
