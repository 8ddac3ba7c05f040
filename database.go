// Package drizzlesolid is the Database facade (spec C9): it binds an
// authenticated Session and SparqlEngine into a single entry point,
// wires the response cache, retry ladder, and SPARQL translator
// prefixes from Config, and exposes select/insert/update/delete
// builders bound to the underlying Pod dialect. It is the only
// package callers outside this module need to import.
package drizzlesolid

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/undefinedsco/drizzle-solid/internal/config"
	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/logging"
	"github.com/undefinedsco/drizzle-solid/internal/pod"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
	"github.com/undefinedsco/drizzle-solid/internal/schema"
	"github.com/undefinedsco/drizzle-solid/internal/sparql"
)

// Session is the authenticated transport contract a caller supplies
// (spec §6): DPoP, cookie jars, and token refresh are transparent to
// this module.
type Session = pod.Session

// SparqlEngine is the remote query contract a caller supplies (spec §6).
type SparqlEngine = pod.SparqlEngine

// Row is one result row: select projections, or the subject/id of an
// inserted/updated/deleted record.
type Row = row.Row

// Option configures a Database at construction time.
type Option func(*options)

type options struct {
	cfg *config.Config
}

// WithConfig overrides the default configuration (cache TTL/backend,
// conflict retry ladder, extra translator prefixes). Callers that
// don't supply one get config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// Database is the bound entry point for one authenticated Pod session.
// It is constructed once per session and reused across operations;
// builders returned from Select/Insert/Update/Delete are cheap and not
// safe to share across goroutines once mutated, matching C4's plain
// (non-thread-safe) builder contract.
type Database struct {
	dialect *pod.Dialect
	cfg     *config.Config
}

// Open constructs a Database bound to session and engine. It rejects
// construction if session is not logged in or carries no usable
// webId, deriving the Pod base URL from it (spec §4.7/§3). Table
// schemas are registered afterward via Database.RegisterTable.
func Open(session Session, engine SparqlEngine, opts ...Option) (*Database, error) {
	o := &options{cfg: config.Default()}
	for _, opt := range opts {
		opt(o)
	}

	tr := sparql.NewTranslator()
	for prefix, uri := range o.cfg.Translator.ExtraPrefixes {
		tr.AddPrefix(prefix, uri)
	}

	store, err := newCacheStore(o.cfg.Cache.Backend)
	if err != nil {
		return nil, err
	}
	cache := pod.NewResponseCache(store, o.cfg.Cache.TTL)

	retry := pod.RetryPolicy{
		ConflictRetries: o.cfg.Retry.ConflictRetries,
		PUTFallback:     o.cfg.Retry.PUTFallback,
	}

	dialect, err := pod.NewDialect(session, engine, cache, retry, tr)
	if err != nil {
		return nil, err
	}

	logging.Get().Debug().Str("webId", session.WebID()).Msg("drizzlesolid: database opened")

	return &Database{dialect: dialect, cfg: o.cfg}, nil
}

// RegisterTable makes table visible to query execution. Tables must be
// registered before any builder bound to them is executed.
func (db *Database) RegisterTable(table *schema.Table) {
	db.dialect.RegisterTable(table)
}

// Select starts a SELECT builder over table.
func (db *Database) Select(table *schema.Table) *query.SelectBuilder {
	return query.NewSelect(table, db.dialect)
}

// Insert starts an INSERT builder over table.
func (db *Database) Insert(table *schema.Table) *query.InsertBuilder {
	return query.NewInsert(table, db.dialect)
}

// Update starts an UPDATE builder over table.
func (db *Database) Update(table *schema.Table) *query.UpdateBuilder {
	return query.NewUpdate(table, db.dialect)
}

// Delete starts a DELETE builder over table.
func (db *Database) Delete(table *schema.Table) *query.DeleteBuilder {
	return query.NewDelete(table, db.dialect)
}

// Transaction sequentially runs fn with the same session-bound
// Database. Per spec §4.7 this provides no isolation and no rollback:
// it exists purely to group a batch of statements under one
// correlation id for structured logging and error reporting. If fn
// returns an error, prior statements' effects are not undone.
func (db *Database) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Database) error) error {
	txID := uuid.New().String()
	txCtx := context.WithValue(ctx, transactionIDKey{}, txID)

	log := logging.Get().With().Str("transaction", txID).Logger()
	log.Debug().Msg("drizzlesolid: transaction started")

	if err := fn(txCtx, db); err != nil {
		log.Debug().Err(err).Msg("drizzlesolid: transaction failed")
		return fmt.Errorf("transaction %s: %w", txID, err)
	}

	log.Debug().Msg("drizzlesolid: transaction completed")
	return nil
}

type transactionIDKey struct{}

// TransactionID returns the correlation id of the Transaction call
// enclosing ctx, if any.
func TransactionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(transactionIDKey{}).(string)
	return id, ok
}

// Re-exported error predicates (spec §7), so callers never need to
// import internal/drizzleerr directly.
var (
	IsProgrammerError = drizzleerr.IsProgrammerError
	IsNotLoggedIn     = drizzleerr.IsNotLoggedIn
	IsResourceExists  = drizzleerr.IsResourceExists
	IsNotFound        = drizzleerr.IsNotFound
	IsTransportError  = drizzleerr.IsTransportError
	IsSparqlError     = drizzleerr.IsSparqlError
	IsParseError      = drizzleerr.IsParseError
)
