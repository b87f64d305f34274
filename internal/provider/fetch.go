package provider

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Kind names one of the payloads an update needs.
type Kind string

const (
	KindVersion Kind = "version"
	KindSets    Kind = "sets"
	KindCards   Kind = "cards"
	KindBanlist Kind = "banlist"
)

// Endpoints are the URLs an update fetches.
type Endpoints struct {
	Version string
	Sets    string
	Cards   string
	Banlist string
}

// Payloads holds the raw bodies of one successful FetchAll.
type Payloads struct {
	Version string
	Sets    string
	Cards   string
	Banlist string
}

// FetchError reports which payload failed.
type FetchError struct {
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetching %s: %v", e.Kind, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher is the subset of Client used by FetchAll.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchAll issues all four requests concurrently. A failing request does
// not cancel the others; every failure is joined into the returned error.
func FetchAll(ctx context.Context, f Fetcher, e Endpoints) (*Payloads, error) {
	var (
		p    Payloads
		errs [4]error
	)
	jobs := []struct {
		kind Kind
		url  string
		dst  *string
	}{
		{KindVersion, e.Version, &p.Version},
		{KindSets, e.Sets, &p.Sets},
		{KindCards, e.Cards, &p.Cards},
		{KindBanlist, e.Banlist, &p.Banlist},
	}

	// A plain Group, not WithContext: one failure must not cancel the
	// other requests.
	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			body, err := f.Fetch(ctx, job.url)
			if err != nil {
				errs[i] = &FetchError{Kind: job.kind, Err: err}
				return errs[i]
			}
			*job.dst = body
			return nil
		})
	}
	// Wait reports only the first failure; the rest are in errs.
	if err := g.Wait(); err != nil {
		return nil, errors.Join(errs[:]...)
	}
	return &p, nil
}
