package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

// schema is executed in order inside the staging transaction. Every sync
// drops and recreates the tables; there is no upsert path.
var schema = []string{
	`DROP TABLE IF EXISTS set_contents`,
	`DROP TABLE IF EXISTS cards`,
	`DROP TABLE IF EXISTS sets`,
	`CREATE TABLE sets (
		name    TEXT PRIMARY KEY,
		date    TEXT,
		code    TEXT,
		cards   INTEGER
	)`,
	`CREATE TABLE cards (
		id          BIGINT PRIMARY KEY,
		name        TEXT,
		card_type   TEXT,
		description TEXT,
		atk         INTEGER,
		def         INTEGER,
		level       INTEGER,
		type        TEXT,
		attribute   TEXT,
		archetype   TEXT,
		pend_scale  INTEGER,
		link_rating INTEGER
	)`,
	// card_id is a logical reference to cards(id); both tables are replaced together.
	`CREATE TABLE set_contents (
		card_id     BIGINT NOT NULL,
		set_name    TEXT,
		rarity      TEXT
	)`,
	`CREATE INDEX set_contents_card_id_idx ON set_contents (card_id)`,
	`CREATE INDEX set_contents_set_name_idx ON set_contents (set_name)`,
}

var (
	setColumns        = []string{"name", "date", "code", "cards"}
	cardColumns       = []string{"id", "name", "card_type", "description", "atk", "def", "level", "type", "attribute", "archetype", "pend_scale", "link_rating"}
	setContentColumns = []string{"card_id", "set_name", "rarity"}
)

// pgConn is the subset of *pgxpool.Pool used by Postgres.
type pgConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the relational persister: sets, cards and set_contents.
// Ban lists are not part of the relational schema.
type Postgres struct {
	db   pgConn
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and verifies the connection.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{db: pool, pool: pool}, nil
}

func (p *Postgres) Name() string { return "postgres" }

// External reports true: a committed transaction survives a file rollback.
func (p *Postgres) External() bool { return true }

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Stage replaces the three tables inside one transaction and leaves it
// open. Other sessions never observe the half-loaded tables: they block on
// the table locks until Commit or Discard.
func (p *Postgres) Stage(ctx context.Context, c *catalog.Catalog) (Pending, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	if err := load(ctx, tx, c); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	return &pgPending{tx: tx}, nil
}

func load(ctx context.Context, tx pgx.Tx, c *catalog.Catalog) error {
	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("recreating tables: %w", err)
		}
	}
	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"sets", setColumns, setRows(c.Sets)},
		{"cards", cardColumns, cardRows(c.Cards)},
		{"set_contents", setContentColumns, setContentRows(c.SetContents)},
	}
	for _, cp := range copies {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{cp.table}, cp.columns, pgx.CopyFromRows(cp.rows))
		if err != nil {
			return fmt.Errorf("inserting %s: %w", cp.table, err)
		}
		if int(n) != len(cp.rows) {
			return fmt.Errorf("inserting %s: wrote %d of %d rows", cp.table, n, len(cp.rows))
		}
	}
	return nil
}

type pgPending struct {
	tx pgx.Tx
}

func (p *pgPending) Commit(ctx context.Context) error {
	return p.tx.Commit(ctx)
}

// Discard rolls the transaction back. Rolling back a committed
// transaction is a no-op.
func (p *pgPending) Discard(ctx context.Context) error {
	err := p.tx.Rollback(ctx)
	if err == pgx.ErrTxClosed {
		return nil
	}
	return err
}

// Load reads the tables back into a catalog ordered by key. Each set's
// CardIDs come from set_contents.
func (p *Postgres) Load(ctx context.Context) (*catalog.Catalog, error) {
	ok, err := p.tablesExist(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCatalog
	}

	c := &catalog.Catalog{}

	rows, err := p.db.Query(ctx, `SELECT id, name, card_type, description, atk, def, level, type, attribute, archetype, pend_scale, link_rating FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	for rows.Next() {
		var (
			card                                        catalog.Card
			name, cardType, desc, race, attr, archetype *string
		)
		if err := rows.Scan(&card.ID, &name, &cardType, &desc, &card.Atk, &card.Def, &card.Level,
			&race, &attr, &archetype, &card.Scale, &card.LinkRating); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		card.Name, card.Type, card.Desc = deref(name), deref(cardType), deref(desc)
		card.Race, card.Attribute, card.Archetype = deref(race), deref(attr), deref(archetype)
		c.Cards = append(c.Cards, card)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cards: %w", err)
	}

	rows, err = p.db.Query(ctx, `SELECT card_id, set_name, rarity FROM set_contents ORDER BY set_name, card_id, rarity`)
	if err != nil {
		return nil, fmt.Errorf("querying set contents: %w", err)
	}
	members := catalog.SetMembers{}
	for rows.Next() {
		var (
			sc              catalog.SetContent
			setName, rarity *string
		)
		if err := rows.Scan(&sc.CardID, &setName, &rarity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning set content: %w", err)
		}
		sc.SetName, sc.Rarity = deref(setName), deref(rarity)
		c.SetContents = append(c.SetContents, sc)
		if ids := members[sc.SetName]; len(ids) == 0 || ids[len(ids)-1] != sc.CardID {
			members[sc.SetName] = append(ids, sc.CardID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading set contents: %w", err)
	}

	rows, err = p.db.Query(ctx, `SELECT name, date, code, cards FROM sets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	for rows.Next() {
		var (
			s          catalog.CardSet
			date, code *string
		)
		if err := rows.Scan(&s.Name, &date, &code, &s.CardCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		s.Date, s.Code = deref(date), deref(code)
		s.CardIDs = members[s.Name]
		c.Sets = append(c.Sets, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading sets: %w", err)
	}

	return c, nil
}

// Counts returns row counts of the relational tables. Banlists is always 0.
func (p *Postgres) Counts(ctx context.Context) (catalog.Counts, error) {
	var counts catalog.Counts
	ok, err := p.tablesExist(ctx)
	if err != nil || !ok {
		return counts, err
	}
	err = p.db.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM cards),
		(SELECT count(*) FROM set_contents),
		(SELECT count(*) FROM sets)`).Scan(&counts.Cards, &counts.SetContents, &counts.Sets)
	if err != nil {
		return counts, fmt.Errorf("counting rows: %w", err)
	}
	return counts, nil
}

func (p *Postgres) tablesExist(ctx context.Context) (bool, error) {
	var ok bool
	err := p.db.QueryRow(ctx, `SELECT to_regclass('sets') IS NOT NULL
		AND to_regclass('cards') IS NOT NULL
		AND to_regclass('set_contents') IS NOT NULL`).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking tables: %w", err)
	}
	return ok, nil
}

func setRows(sets []catalog.CardSet) [][]any {
	rows := make([][]any, len(sets))
	for i, s := range sets {
		rows[i] = []any{s.Name, nullString(s.Date), nullString(s.Code), nullInt(s.CardCount)}
	}
	return rows
}

func cardRows(cards []catalog.Card) [][]any {
	rows := make([][]any, len(cards))
	for i, c := range cards {
		rows[i] = []any{
			c.ID, nullString(c.Name), nullString(c.Type), nullString(c.Desc),
			nullInt(c.Atk), nullInt(c.Def), nullInt(c.Level),
			nullString(c.Race), nullString(c.Attribute), nullString(c.Archetype),
			nullInt(c.Scale), nullInt(c.LinkRating),
		}
	}
	return rows
}

func setContentRows(contents []catalog.SetContent) [][]any {
	rows := make([][]any, len(contents))
	for i, sc := range contents {
		rows[i] = []any{sc.CardID, nullString(sc.SetName), nullString(sc.Rarity)}
	}
	return rows
}

// nullString maps the parser's "absent" empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(p *int32) any {
	if p == nil {
		return nil
	}
	return *p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
