// Package scimsync implements a paged copy/upsert from a source SCIM
// server's resource collection to a target's, with optional deletion of
// target resources no longer present in the source.
package scimsync

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// Options configures a sync run.
type Options struct {
	PageSize      int
	DeleteOrphans bool
	HTTPClient    *http.Client
}

func (o Options) defaulted() Options {
	if o.PageSize <= 0 {
		o.PageSize = 100
	}
	return o
}

// Report summarizes the outcome of a sync run.
type Report struct {
	Upserted int
	Deleted  int
	Failed   int
	Errors   []error
}

func (r *Report) fail(err error) {
	r.Failed++
	r.Errors = append(r.Errors, err)
}

// Syncer copies one resource collection from a source endpoint to a target
// endpoint.
type Syncer struct {
	source *client
	target *client
	opt    Options
	log    zerolog.Logger
}

// New returns a Syncer. logger receives progress at info level and
// per-record failures at warn level; a failure to upsert or delete one
// record does not stop the run.
func New(source, target Endpoint, opt Options, logger zerolog.Logger) *Syncer {
	opt = opt.defaulted()
	return &Syncer{
		source: newClient(source, opt.HTTPClient),
		target: newClient(target, opt.HTTPClient),
		opt:    opt,
		log:    logger,
	}
}

// Run pages through the source collection, upserting every resource into
// the target, then — if DeleteOrphans is set — pages through the target
// collection and deletes every resource whose id was not seen in the
// source.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	seen := map[string]struct{}{}

	if err := s.copySource(ctx, report, seen); err != nil {
		return report, err
	}

	if s.opt.DeleteOrphans {
		if err := s.deleteOrphans(ctx, report, seen); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (s *Syncer) copySource(ctx context.Context, report *Report, seen map[string]struct{}) error {
	startIndex := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.source.listPage(ctx, startIndex, s.opt.PageSize)
		if err != nil {
			return err
		}

		for _, data := range page.Resources {
			id, _ := data["id"].(string)
			if id == "" {
				continue
			}
			seen[id] = struct{}{}

			if err := s.target.upsert(ctx, id, data); err != nil {
				s.log.Warn().Str("id", id).Err(err).Msg("failed to upsert resource")
				report.fail(err)
				continue
			}
			report.Upserted++
		}

		s.log.Info().
			Int("startIndex", startIndex).
			Int("fetched", len(page.Resources)).
			Int("totalResults", page.TotalResults).
			Msg("synced page")

		startIndex += len(page.Resources)
		if len(page.Resources) == 0 || startIndex > page.TotalResults {
			return nil
		}
	}
}

func (s *Syncer) deleteOrphans(ctx context.Context, report *Report, seen map[string]struct{}) error {
	startIndex := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.target.listPage(ctx, startIndex, s.opt.PageSize)
		if err != nil {
			return err
		}

		for _, data := range page.Resources {
			id, _ := data["id"].(string)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}

			if err := s.target.delete(ctx, id); err != nil {
				s.log.Warn().Str("id", id).Err(err).Msg("failed to delete orphan")
				report.fail(err)
				continue
			}
			report.Deleted++
			s.log.Info().Str("id", id).Msg("deleted orphan")
		}

		startIndex += len(page.Resources)
		if len(page.Resources) == 0 || startIndex > page.TotalResults {
			return nil
		}
	}
}
