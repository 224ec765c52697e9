package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vagas-dashboard/internal/domain"
)

var (
	ErrDuplicate = errors.New("duplicate listing")
	ErrInvalid   = errors.New("invalid listing")
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// IsDuplicate reports whether a listing with the same link, or the same
// title and company, is already stored.
func IsDuplicate(ctx context.Context, q querier, title, company, link string) (bool, error) {
	var one int
	if link != "" {
		err := q.QueryRowContext(ctx, `SELECT 1 FROM vagas WHERE link_vaga = ? LIMIT 1;`, link).Scan(&one)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return false, err
		}
	}
	if title != "" && company != "" {
		err := q.QueryRowContext(ctx,
			`SELECT 1 FROM vagas WHERE titulo = ? AND empresa = ? LIMIT 1;`, title, company).Scan(&one)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return false, err
		}
	}
	return false, nil
}

// normalize fills defaults and rejects rows the backend would refuse.
func normalize(l domain.Listing, now time.Time) (domain.Listing, error) {
	l.Title = strings.TrimSpace(l.Title)
	l.Company = strings.TrimSpace(l.Company)
	if l.Title == "" {
		return l, fmt.Errorf("%w: titulo is required", ErrInvalid)
	}
	if _, err := domain.ParseSource(string(l.Source)); err != nil {
		return l, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if l.WorkMode == "" {
		l.WorkMode = domain.WorkModeUnspecified
	}
	if _, err := domain.ParseWorkMode(string(l.WorkMode)); err != nil {
		return l, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if l.English == "" {
		l.English = domain.EnglishUnspecified
	}
	if _, err := domain.ParseEnglishLevel(string(l.English)); err != nil {
		return l, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if l.Status == "" {
		l.Status = domain.StatusPending
	}
	if _, err := domain.ParseStatus(string(l.Status)); err != nil {
		return l, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if l.CollectedOn == "" {
		l.CollectedOn = now.Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, l.CollectedOn); err != nil {
		return l, fmt.Errorf("%w: data_coleta must be YYYY-MM-DD", ErrInvalid)
	}
	ts := now.UTC().Format(time.RFC3339)
	l.CreatedAt, l.UpdatedAt = ts, ts
	return l, nil
}

func insert(ctx context.Context, q querier, l domain.Listing) (int64, error) {
	res, err := q.ExecContext(ctx, `
INSERT INTO vagas (titulo, empresa, tipo_vaga, fonte, link_vaga, localizacao, modalidade,
  requisito_ingles, forma_contato, email_contato, perfil_autor, nome_autor, data_coleta,
  status, observacoes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		l.Title, l.Company, l.JobType, string(l.Source), l.Link, l.Location, string(l.WorkMode),
		string(l.English), string(l.ContactForm), l.ContactEmail, l.AuthorProfile, l.AuthorName, l.CollectedOn,
		string(l.Status), l.Notes, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	return res.LastInsertId()
}

// CreateListing stores l unless it duplicates an existing row.
func CreateListing(ctx context.Context, db *sql.DB, l domain.Listing, now time.Time) (domain.Listing, error) {
	added, out, err := InsertListingIgnore(ctx, db, l, now)
	if err != nil {
		return domain.Listing{}, err
	}
	if !added {
		return domain.Listing{}, ErrDuplicate
	}
	return out, nil
}

// InsertListingIgnore inserts l when no duplicate exists. The check and
// the insert share one transaction.
func InsertListingIgnore(ctx context.Context, db *sql.DB, l domain.Listing, now time.Time) (added bool, out domain.Listing, err error) {
	l, err = normalize(l, now)
	if err != nil {
		return false, domain.Listing{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, domain.Listing{}, err
	}
	defer func() { _ = tx.Rollback() }()

	dup, err := IsDuplicate(ctx, tx, l.Title, l.Company, l.Link)
	if err != nil {
		return false, domain.Listing{}, err
	}
	if dup {
		return false, domain.Listing{}, nil
	}

	id, err := insert(ctx, tx, l)
	if err != nil {
		return false, domain.Listing{}, err
	}
	if err := tx.Commit(); err != nil {
		return false, domain.Listing{}, err
	}
	l.ID = id
	return true, l, nil
}

// BatchResult mirrors what a scraper run reports.
type BatchResult struct {
	New       int
	Collected int
}

// InsertBatch stores every non-duplicate listing of a collection run.
func InsertBatch(ctx context.Context, db *sql.DB, ls []domain.Listing, now time.Time) (BatchResult, error) {
	res := BatchResult{Collected: len(ls)}
	for _, l := range ls {
		added, _, err := InsertListingIgnore(ctx, db, l, now)
		if err != nil {
			return res, err
		}
		if added {
			res.New++
		}
	}
	return res, nil
}
