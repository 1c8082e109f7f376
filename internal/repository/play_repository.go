package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/stagebook/stagebook/internal/model"
)

// ErrPlayNotFound is returned when a play lookup fails.
var ErrPlayNotFound = errors.New("play not found")

// PlayRepo provides persistence for plays and their genre/actor
// associations.  Associations live in the play_genres and play_actors join
// tables and are always replaced as a whole inside the same transaction as
// the play row itself.
type PlayRepo struct {
	db *sql.DB
}

func NewPlayRepo(db *sql.DB) *PlayRepo { return &PlayRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *PlayRepo) DB() *sql.DB { return r.db }

// PlayFilter defines filters & pagination for listing plays.  GenreIDs and
// ActorIDs match plays associated with ANY of the listed IDs.
type PlayFilter struct {
	Title    string
	GenreIDs []uint64
	ActorIDs []uint64
	Page     int
	PageSize int
}

// PlayRow is a play as returned by List and GetByID, with genre and actor
// names expanded for display.
type PlayRow struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DurationMin uint32   `json:"duration_min"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`
}

// Create inserts a play together with its genre and actor links in one
// transaction.  The generated ID is set on the passed struct.
func (r *PlayRepo) Create(ctx context.Context, p *model.Play, genreIDs, actorIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO plays (title, description, duration_min) VALUES (?, ?, ?)`,
		p.Title, p.Description, p.DurationMin)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	if err := replaceLinksTx(ctx, tx, "play_genres", "genre_id", p.ID, genreIDs); err != nil {
		if isForeignKeyMissing(err) {
			return ErrBadReference
		}
		return err
	}
	if err := replaceLinksTx(ctx, tx, "play_actors", "actor_id", p.ID, actorIDs); err != nil {
		if isForeignKeyMissing(err) {
			return ErrBadReference
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update rewrites a play row and replaces both association sets.  Returns
// ErrPlayNotFound when the play does not exist.
func (r *PlayRepo) Update(ctx context.Context, p *model.Play, genreIDs, actorIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE plays SET title = ?, description = ?, duration_min = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Title, p.Description, p.DurationMin, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing play and a no-op update, so
		// confirm existence before reporting not-found.
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM plays WHERE id = ?`, p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPlayNotFound
			}
			return err
		}
	}

	if err := replaceLinksTx(ctx, tx, "play_genres", "genre_id", p.ID, genreIDs); err != nil {
		if isForeignKeyMissing(err) {
			return ErrBadReference
		}
		return err
	}
	if err := replaceLinksTx(ctx, tx, "play_actors", "actor_id", p.ID, actorIDs); err != nil {
		if isForeignKeyMissing(err) {
			return ErrBadReference
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a play.  Returns ErrConflict when performances still
// reference it and sql.ErrNoRows when it does not exist.
func (r *PlayRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plays WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyRestrict(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID returns one play with genres and actors expanded.  Returns
// ErrPlayNotFound when no row exists.
func (r *PlayRepo) GetByID(ctx context.Context, id uint64) (*PlayRow, error) {
	var p PlayRow
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, duration_min FROM plays WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.DurationMin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayNotFound
		}
		return nil, err
	}
	p.Genres = []string{}
	p.Actors = []string{}
	byID := map[uint64]*PlayRow{p.ID: &p}
	if err := r.loadGenres(ctx, byID, []uint64{p.ID}); err != nil {
		return nil, err
	}
	if err := r.loadActors(ctx, byID, []uint64{p.ID}); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns plays matching the filter, ordered by title, plus the total
// count before pagination.
func (r *PlayRepo) List(ctx context.Context, f PlayFilter) ([]PlayRow, int64, error) {
	where := []string{}
	args := []any{}

	if f.Title != "" {
		where = append(where, "LOWER(p.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
	}
	if len(f.GenreIDs) > 0 {
		where = append(where,
			"EXISTS (SELECT 1 FROM play_genres pg WHERE pg.play_id = p.id AND pg.genre_id IN ("+placeholders(len(f.GenreIDs))+"))")
		for _, id := range f.GenreIDs {
			args = append(args, id)
		}
	}
	if len(f.ActorIDs) > 0 {
		where = append(where,
			"EXISTS (SELECT 1 FROM play_actors pa WHERE pa.play_id = p.id AND pa.actor_id IN ("+placeholders(len(f.ActorIDs))+"))")
		for _, id := range f.ActorIDs {
			args = append(args, id)
		}
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM plays p WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize

	dataSQL := `SELECT p.id, p.title, p.description, p.duration_min
		FROM plays p
		WHERE ` + cond + `
		ORDER BY p.title ASC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PlayRow, 0, limit)
	for rows.Next() {
		var p PlayRow
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.DurationMin); err != nil {
			return nil, 0, err
		}
		p.Genres = []string{}
		p.Actors = []string{}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(out) == 0 {
		return out, total, nil
	}

	// Batch-load the associations for all listed plays in two queries.
	byID := make(map[uint64]*PlayRow, len(out))
	ids := make([]uint64, 0, len(out))
	for i := range out {
		byID[out[i].ID] = &out[i]
		ids = append(ids, out[i].ID)
	}
	if err := r.loadGenres(ctx, byID, ids); err != nil {
		return nil, 0, err
	}
	if err := r.loadActors(ctx, byID, ids); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PlayRepo) loadGenres(ctx context.Context, byID map[uint64]*PlayRow, ids []uint64) error {
	q := `SELECT pg.play_id, g.name
	      FROM play_genres pg
	      JOIN genres g ON g.id = pg.genre_id
	      WHERE pg.play_id IN (` + placeholders(len(ids)) + `)
	      ORDER BY g.name`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pid uint64
		var name string
		if err := rows.Scan(&pid, &name); err != nil {
			return err
		}
		if p, ok := byID[pid]; ok {
			p.Genres = append(p.Genres, name)
		}
	}
	return rows.Err()
}

func (r *PlayRepo) loadActors(ctx context.Context, byID map[uint64]*PlayRow, ids []uint64) error {
	q := `SELECT pa.play_id, CONCAT(a.first_name, ' ', a.last_name)
	      FROM play_actors pa
	      JOIN actors a ON a.id = pa.actor_id
	      WHERE pa.play_id IN (` + placeholders(len(ids)) + `)
	      ORDER BY a.last_name, a.first_name`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pid uint64
		var name string
		if err := rows.Scan(&pid, &name); err != nil {
			return err
		}
		if p, ok := byID[pid]; ok {
			p.Actors = append(p.Actors, name)
		}
	}
	return rows.Err()
}

// replaceLinksTx deletes and re-inserts the join rows for one play.  table
// and column are compile-time constants at every call site, never user
// input.
func replaceLinksTx(ctx context.Context, tx *sql.Tx, table, column string, playID uint64, ids []uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE play_id = ?`, playID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	query := `INSERT INTO ` + table + ` (play_id, ` + column + `) VALUES `
	args := make([]any, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, playID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// placeholders returns n comma-separated "?" markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func idArgs(ids []uint64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
