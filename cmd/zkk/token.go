package main

import (
	"github.com/urfave/cli/v2"
)

var token = cli.Command{
	Name:  "token",
	Usage: "manage the bearer tokens accepted by the daemon",
	Subcommands: []*cli.Command{
		{
			Name:   "issue",
			Usage:  "issue a bearer token for the given subject",
			Action: issueTokenAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subject",
					Usage:    "the identity the token authenticates",
					Required: true,
				},
				&cli.DurationFlag{
					Name:  "ttl",
					Usage: "validity of the token, 0 for no expiration",
				},
			},
		},
	},
}

func issueTokenAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.post("/v1/auth/tokens", map[string]interface{}{
		"subject": ctx.String("subject"),
		"ttl":     int64(ctx.Duration("ttl").Seconds()),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
