package main

import (
	"log"
	"os"

	"github.com/entrahub/scim/cmd/scimsync"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "scim",
		Usage: "System for Cross-domain Identity Management",
		Commands: []*cli.Command{
			scimsync.Command(),
		},
		HideVersion: true,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
