package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-popup/internal/mines"
)

type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres stores one settings row per profile.
type Postgres struct {
	db      DBTX
	profile string
}

func NewPostgres(db DBTX, profile string) *Postgres {
	return &Postgres{db: db, profile: profile}
}

type settingsRow struct {
	Width     int `db:"width"`
	Height    int `db:"height"`
	MineCount int `db:"mine_count"`
}

func wrapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return errors.Join(ErrNotMigrated, err)
	}
	return err
}

func (p *Postgres) Load(ctx context.Context) (mines.Settings, error) {
	rows, _ := p.db.Query(
		ctx,
		`SELECT width, height, mine_count FROM settings WHERE profile = @profile`,
		pgx.NamedArgs{"profile": p.profile},
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[settingsRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return mines.Settings{}, ErrNotFound
	}
	if err != nil {
		return mines.Settings{}, wrapPgError(err)
	}
	return mines.Settings(row), nil
}

func (p *Postgres) Save(ctx context.Context, s mines.Settings) error {
	_, err := p.db.Exec(
		ctx,
		`INSERT INTO settings (profile, width, height, mine_count)
		VALUES (@profile, @width, @height, @mine_count)
		ON CONFLICT (profile) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			mine_count = excluded.mine_count,
			updated_at = now();`,
		pgx.NamedArgs{
			"profile":    p.profile,
			"width":      s.Width,
			"height":     s.Height,
			"mine_count": s.MineCount,
		},
	)
	return wrapPgError(err)
}
