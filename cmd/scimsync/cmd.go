// Package scimsync wires the scimsync package to a urfave/cli/v2 command.
package scimsync

import (
	"fmt"

	"github.com/entrahub/scim/scimsync"
	"github.com/urfave/cli/v2"
)

// Command returns a cli.Command that runs one paged copy/upsert from a
// source SCIM server to a target, with optional orphan deletion.
func Command() *cli.Command {
	args := newArgs()
	return &cli.Command{
		Name:        "sync",
		Description: "Copy a resource collection from a source SCIM server to a target SCIM server",
		Flags:       args.Flags(),
		Action: func(c *cli.Context) error {
			logger := args.logger()

			syncer := scimsync.New(
				scimsync.Endpoint{BaseURL: args.sourceURL, BearerToken: args.sourceToken, Resource: args.resource},
				scimsync.Endpoint{BaseURL: args.targetURL, BearerToken: args.targetToken, Resource: args.resource},
				scimsync.Options{PageSize: args.pageSize, DeleteOrphans: args.deleteOrphan},
				logger,
			)

			report, err := syncer.Run(c.Context)
			if err != nil {
				return err
			}

			logger.Info().
				Int("upserted", report.Upserted).
				Int("deleted", report.Deleted).
				Int("failed", report.Failed).
				Msg("sync complete")

			if report.Failed > 0 {
				return fmt.Errorf("sync completed with %d failed record(s)", report.Failed)
			}
			return nil
		},
	}
}
