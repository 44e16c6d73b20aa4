package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

var directionFlag = cli.StringFlag{
	Name:  "direction",
	Usage: "the direction of the messages: outbound or inbound",
	Value: "outbound",
}

var peer = cli.Command{
	Name:  "peer",
	Usage: "manage the trusted peers of the token on the remote domains",
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set the trusted peer for a remote domain",
			Action: setPeerAction,
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:     "domain",
					Usage:    "the id of the remote domain, ie. 40245 for baseSepolia",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "address",
					Usage:    "the address of the token on the remote domain",
					Required: true,
				},
			},
		},
		{
			Name:   "list",
			Usage:  "list the trusted peers",
			Action: listPeersAction,
		},
	},
}

var send = cli.Command{
	Name:   "send",
	Usage:  "burn tokens here and send them to a recipient on a remote domain",
	Action: sendAction,
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:     "domain",
			Usage:    "the id of the destination domain",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the recipient on the destination domain",
			Required: true,
		},
		&amountFlag,
		&baseUnitsFlag,
	},
}

var messages = cli.Command{
	Name:   "messages",
	Usage:  "list the cross-domain messages",
	Action: listMessagesAction,
	Flags: []cli.Flag{
		&directionFlag,
		&pageFlag,
		&sizeFlag,
	},
	Subcommands: []*cli.Command{
		{
			Name:      "get",
			Usage:     "get a cross-domain message by id",
			ArgsUsage: "<id>",
			Action:    getMessageAction,
			Flags: []cli.Flag{
				&directionFlag,
			},
		},
	},
}

func setPeerAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if _, err := client.post("/v1/peers", map[string]interface{}{
		"domain_id": ctx.Uint("domain"),
		"address":   ctx.String("address"),
	}); err != nil {
		return err
	}

	fmt.Printf("peer for domain %d set to %s\n", ctx.Uint("domain"), ctx.String("address"))
	return nil
}

func listPeersAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/peers", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func sendAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amount, err := amountFromFlags(ctx, tokenDecimals())
	if err != nil {
		return err
	}

	resp, err := client.post("/v1/transport/send", map[string]interface{}{
		"dst_domain": ctx.Uint("domain"),
		"recipient":  ctx.String("to"),
		"amount":     amount,
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listMessagesAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	query := pageQuery(ctx)
	query.Set("direction", ctx.String("direction"))

	resp, err := client.get("/v1/transport/messages", query)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func getMessageAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, "get"}
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("direction", ctx.String("direction"))

	resp, err := client.get(
		"/v1/transport/messages/"+url.PathEscape(ctx.Args().First()), query,
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
