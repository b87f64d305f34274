// Package updater runs the catalog update pipeline: back up, fetch, parse,
// persist, then commit or roll back.
package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/cardctl/internal/backup"
	"github.com/blackwell-systems/cardctl/internal/cache"
	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/history"
	"github.com/blackwell-systems/cardctl/internal/logging"
	"github.com/blackwell-systems/cardctl/internal/provider"
	"github.com/blackwell-systems/cardctl/internal/store"
	"github.com/blackwell-systems/cardctl/internal/version"
)

// Config wires an Updater. History and OnStage are optional.
type Config struct {
	Endpoints  provider.Endpoints
	Fetcher    provider.Fetcher
	Checker    *version.Checker
	Backup     *backup.Coordinator
	Persisters []store.Persister
	Cache      *cache.Cache
	History    *history.Ledger
	OnStage    func(Stage)
}

// Updater synchronizes the local catalog with the provider.
type Updater struct {
	cfg Config
	now func() time.Time
}

// New returns an Updater. Persisters commit in the order given, except that
// store.External ones commit after the version token is written.
func New(cfg Config) *Updater {
	return &Updater{cfg: cfg, now: time.Now}
}

// WithStageHook returns a copy of u that reports stages to fn.
func (u *Updater) WithStageHook(fn func(Stage)) *Updater {
	cp := *u
	cp.cfg.OnStage = fn
	return &cp
}

// NewVersionAvailable reports whether the provider has a different catalog
// version than the one stored locally.
func (u *Updater) NewVersionAvailable(ctx context.Context) (bool, error) {
	return u.cfg.Checker.NewVersionAvailable(ctx)
}

// LocalVersion returns the stored version token, if any.
func (u *Updater) LocalVersion() (string, bool, error) {
	return u.cfg.Checker.Local()
}

// UpdateAsync runs Update on its own goroutine. The channel receives
// exactly one Result and is then closed.
func (u *Updater) UpdateAsync(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- u.Update(ctx)
	}()
	return ch
}

// Update runs one full attempt and blocks until it commits or rolls back.
// The cache is replaced only on Complete. Once the backup is taken the
// attempt ignores cancellation of ctx.
func (u *Updater) Update(ctx context.Context) Result {
	res := Result{AttemptID: uuid.NewString(), Started: u.now()}
	log := logging.WithFields(ctx, "attempt", res.AttemptID)
	log.Info("update started")

	u.run(ctx, log, &res)

	res.Finished = u.now()
	u.record(log, res)
	if res.Err != nil {
		log.Warn("update finished", "status", res.Status, "error", res.Err)
	} else {
		log.Info("update finished", "status", res.Status, "version", res.Version, "cards", res.Counts.Cards)
	}
	return res
}

func (u *Updater) run(ctx context.Context, log *slog.Logger, res *Result) {
	fail := func(status Status, err error) {
		res.Status = status
		res.Err = err
	}

	u.stage(StageBackup)
	if err := u.cfg.Backup.Begin(res.AttemptID); err != nil {
		fail(Failed, fmt.Errorf("begin update: %w", err))
		return
	}
	ctx = context.WithoutCancel(ctx)

	abort := func(status Status, err error) {
		u.stage(StageRollback)
		if rbErr := u.cfg.Backup.Rollback(); rbErr != nil {
			log.Error("rollback failed", "error", rbErr)
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		fail(status, err)
	}

	u.stage(StageFetch)
	payloads, err := provider.FetchAll(ctx, u.cfg.Fetcher, u.cfg.Endpoints)
	if err != nil {
		abort(Failed, err)
		return
	}

	u.stage(StageParse)
	token, cat, err := parse(payloads)
	if err != nil {
		abort(Failed, err)
		return
	}
	res.Version = token
	res.Counts = cat.Counts()

	u.stage(StagePersist)
	pending := make([]store.Pending, 0, len(u.cfg.Persisters))
	settled := make([]bool, len(u.cfg.Persisters))
	discard := func() {
		for i, p := range pending {
			if settled[i] {
				continue
			}
			settled[i] = true
			if err := p.Discard(ctx); err != nil {
				log.Warn("discarding staged catalog", "error", err)
			}
		}
	}
	for _, p := range u.cfg.Persisters {
		pd, err := p.Stage(ctx, cat)
		if err != nil {
			discard()
			abort(Incomplete, fmt.Errorf("staging %s: %w", p.Name(), err))
			return
		}
		pending = append(pending, pd)
	}

	// Writes the backup can undo go first. External commits come after the
	// version token, so the last step that can fail before them is
	// restorable.
	commit := func(external bool) error {
		for i, pd := range pending {
			p := u.cfg.Persisters[i]
			if store.IsExternal(p) != external {
				continue
			}
			settled[i] = true
			if err := pd.Commit(ctx); err != nil {
				return fmt.Errorf("committing %s: %w", p.Name(), err)
			}
		}
		return nil
	}

	u.stage(StageCommit)
	if err := commit(false); err != nil {
		discard()
		abort(Incomplete, err)
		return
	}
	if err := u.cfg.Checker.UpdateLocal(token); err != nil {
		discard()
		abort(Incomplete, err)
		return
	}
	if err := commit(true); err != nil {
		discard()
		abort(Incomplete, err)
		return
	}
	if err := u.cfg.Backup.Commit(); err != nil {
		abort(Incomplete, err)
		return
	}

	u.cfg.Cache.Replace(cat)
	res.Status = Complete
	u.stage(StageDone)
}

// parse normalizes every payload. Cards go first so their set memberships
// can enrich the set records.
func parse(p *provider.Payloads) (string, *catalog.Catalog, error) {
	token, err := version.ParseUpstream(p.Version)
	if err != nil {
		return "", nil, err
	}
	info, err := catalog.ParseCards([]byte(p.Cards))
	if err != nil {
		return "", nil, err
	}
	sets, err := catalog.ParseSets([]byte(p.Sets), info.Members)
	if err != nil {
		return "", nil, err
	}
	banlists, err := catalog.ParseBanlist(p.Banlist)
	if err != nil {
		return "", nil, err
	}
	return token, &catalog.Catalog{
		Banlists:    banlists,
		Cards:       info.Cards,
		SetContents: info.SetContents,
		Sets:        sets,
	}, nil
}

func (u *Updater) stage(s Stage) {
	if u.cfg.OnStage != nil {
		u.cfg.OnStage(s)
	}
}

func (u *Updater) record(log *slog.Logger, res Result) {
	if u.cfg.History == nil {
		return
	}
	err := u.cfg.History.Append(history.Entry{
		Attempt:  res.AttemptID,
		Status:   res.Status.String(),
		Version:  res.Version,
		Counts:   res.Counts,
		Error:    res.Error(),
		Started:  res.Started.UTC(),
		Finished: res.Finished.UTC(),
	})
	if err != nil {
		log.Warn("recording update history", "error", err)
	}
}
