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

const (
	DefaultLimit = 100
	MaxLimit     = 500

	dateLayout = "2006-01-02"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS vagas (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  titulo TEXT NOT NULL,
  empresa TEXT NOT NULL DEFAULT '',
  tipo_vaga TEXT NOT NULL DEFAULT '',
  fonte TEXT NOT NULL,
  link_vaga TEXT NOT NULL DEFAULT '',
  localizacao TEXT NOT NULL DEFAULT '',
  modalidade TEXT NOT NULL DEFAULT 'nao_especificado',
  requisito_ingles TEXT NOT NULL DEFAULT 'nao_especificado',
  forma_contato TEXT NOT NULL DEFAULT '',
  email_contato TEXT NOT NULL DEFAULT '',
  perfil_autor TEXT NOT NULL DEFAULT '',
  nome_autor TEXT NOT NULL DEFAULT '',
  data_coleta TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pendente',
  observacoes TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	for _, col := range []string{"fonte", "status", "data_coleta", "modalidade"} {
		if _, err := tx.Exec(fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_vagas_%s ON vagas(%s);`, col, col)); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_vagas_link ON vagas(link_vaga) WHERE link_vaga != '';`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// ListOpts filters GET /vagas/. Empty strings mean "no constraint".
type ListOpts struct {
	Source   string
	Status   string
	WorkMode string
	JobType  string
	English  string
	Skip     int
	Limit    int
}

const listingColumns = `id, titulo, empresa, tipo_vaga, fonte, link_vaga, localizacao, modalidade,
requisito_ingles, forma_contato, email_contato, perfil_autor, nome_autor, data_coleta, status,
observacoes, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(s scanner) (domain.Listing, error) {
	var l domain.Listing
	err := s.Scan(
		&l.ID, &l.Title, &l.Company, &l.JobType, &l.Source, &l.Link, &l.Location, &l.WorkMode,
		&l.English, &l.ContactForm, &l.ContactEmail, &l.AuthorProfile, &l.AuthorName, &l.CollectedOn, &l.Status,
		&l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// ListListings returns one page ordered by collection date, newest first,
// plus the number of rows matching the filters.
func ListListings(ctx context.Context, db *sql.DB, opts ListOpts) ([]domain.Listing, int, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}

	// whitelisted columns only
	var (
		conds []string
		args  []any
	)
	for _, f := range []struct{ col, val string }{
		{"fonte", opts.Source},
		{"status", opts.Status},
		{"modalidade", opts.WorkMode},
		{"tipo_vaga", opts.JobType},
		{"requisito_ingles", opts.English},
	} {
		if f.val == "" {
			continue
		}
		conds = append(conds, f.col+" = ?")
		args = append(args, f.val)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vagas `+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
SELECT %s
FROM vagas
%s
ORDER BY data_coleta DESC, id DESC
LIMIT ? OFFSET ?;
`, listingColumns, where)

	rows, err := db.QueryContext(ctx, query, append(args, opts.Limit, opts.Skip)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func GetListing(ctx context.Context, db *sql.DB, id int64) (domain.Listing, error) {
	row := db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM vagas WHERE id = ?;`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, ErrNotFound
	}
	return l, err
}

// UpdateListing applies the non-nil fields of upd and returns the stored row.
func UpdateListing(ctx context.Context, db *sql.DB, id int64, upd domain.ListingUpdate, now time.Time) (domain.Listing, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Title != nil {
		set("titulo", *upd.Title)
	}
	if upd.Company != nil {
		set("empresa", *upd.Company)
	}
	if upd.JobType != nil {
		set("tipo_vaga", *upd.JobType)
	}
	if upd.Link != nil {
		set("link_vaga", *upd.Link)
	}
	if upd.Location != nil {
		set("localizacao", *upd.Location)
	}
	if upd.WorkMode != nil {
		set("modalidade", string(*upd.WorkMode))
	}
	if upd.English != nil {
		set("requisito_ingles", string(*upd.English))
	}
	if upd.ContactForm != nil {
		set("forma_contato", string(*upd.ContactForm))
	}
	if upd.ContactEmail != nil {
		set("email_contato", *upd.ContactEmail)
	}
	if upd.Status != nil {
		set("status", string(*upd.Status))
	}
	if upd.Notes != nil {
		set("observacoes", *upd.Notes)
	}
	set("updated_at", now.UTC().Format(time.RFC3339))

	res, err := db.ExecContext(ctx,
		`UPDATE vagas SET `+strings.Join(sets, ", ")+` WHERE id = ?;`,
		append(args, id)...)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("update listing %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Listing{}, ErrNotFound
	}
	return GetListing(ctx, db, id)
}

func DeleteListing(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM vagas WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates the whole table. "Last 24h" counts listings collected
// on or after yesterday's date, since data_coleta has day precision.
func Stats(ctx context.Context, db *sql.DB, now time.Time) (domain.Stats, error) {
	var st domain.Stats
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vagas;`).Scan(&st.Total); err != nil {
		return st, err
	}

	var err error
	if st.BySource, err = countBy(ctx, db, "fonte"); err != nil {
		return st, err
	}
	if st.ByStatus, err = countBy(ctx, db, "status"); err != nil {
		return st, err
	}
	if st.ByWorkMode, err = countBy(ctx, db, "modalidade"); err != nil {
		return st, err
	}
	if st.ByJobType, err = countBy(ctx, db, "tipo_vaga"); err != nil {
		return st, err
	}

	since := now.AddDate(0, 0, -1).Format(dateLayout)
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vagas WHERE data_coleta >= ?;`, since).Scan(&st.Last24h); err != nil {
		return st, err
	}
	return st, nil
}

// countBy groups on a whitelisted column, skipping empty values.
func countBy(ctx context.Context, db *sql.DB, col string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s, COUNT(*) FROM vagas WHERE %s != '' GROUP BY %s;`, col, col, col))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}
