package main

import (
	"net/url"

	"github.com/urfave/cli/v2"
)

var mint = cli.Command{
	Name:   "mint",
	Usage:  "mint tokens against an external reference, attested once",
	Action: mintAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the recipient of the minted tokens",
			Required: true,
		},
		&amountFlag,
		&baseUnitsFlag,
		&cli.StringFlag{
			Name:     "ref",
			Usage:    "the external reference, ie. the hash of the attested tx",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "tag",
			Usage: "the project tag, the daemon's one if omitted",
		},
	},
	Subcommands: []*cli.Command{
		{
			Name:      "get",
			Usage:     "get the mint record of an external reference",
			ArgsUsage: "<ref>",
			Action:    getMintAction,
		},
		{
			Name:   "list",
			Usage:  "list the mint records, optionally filtered by tag",
			Action: listMintsAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "tag", Usage: "the project tag"},
				&pageFlag,
				&sizeFlag,
			},
		},
	},
}

func mintAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amount, err := amountFromFlags(ctx, tokenDecimals())
	if err != nil {
		return err
	}

	resp, err := client.post("/v1/mint", map[string]string{
		"recipient":    ctx.String("to"),
		"amount":       amount,
		"external_ref": ctx.String("ref"),
		"tag":          ctx.String("tag"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func getMintAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, "get"}
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/mints/"+url.PathEscape(ctx.Args().First()), nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listMintsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	query := pageQuery(ctx)
	if tag := ctx.String("tag"); len(tag) > 0 {
		query.Set("tag", tag)
	}

	resp, err := client.get("/v1/mints", query)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
