package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

var (
	pageFlag = cli.IntFlag{
		Name:  "page",
		Usage: "the page number, requires --size",
	}

	sizeFlag = cli.IntFlag{
		Name:  "size",
		Usage: "the number of entries per page",
	}
)

var balance = cli.Command{
	Name:      "balance",
	Usage:     "get the token and collateral balances of an account",
	ArgsUsage: "<address>",
	Action:    balanceAction,
}

var supply = cli.Command{
	Name:   "supply",
	Usage:  "get the circulating supply of the token",
	Action: supplyAction,
}

var accounts = cli.Command{
	Name:   "accounts",
	Usage:  "list the accounts of the ledger",
	Action: accountsAction,
	Flags: []cli.Flag{
		&pageFlag,
		&sizeFlag,
	},
}

var transfer = cli.Command{
	Name:   "transfer",
	Usage:  "transfer tokens from the authenticated account",
	Action: transferAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the recipient of the transfer",
			Required: true,
		},
		&amountFlag,
		&baseUnitsFlag,
	},
}

var approve = cli.Command{
	Name:   "approve",
	Usage:  "set the allowance of a spender over the authenticated account",
	Action: approveAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "spender",
			Usage:    "the account allowed to spend",
			Required: true,
		},
		&amountFlag,
		&baseUnitsFlag,
	},
}

var allowance = cli.Command{
	Name:      "allowance",
	Usage:     "get the allowance of a spender over an owner's account",
	ArgsUsage: "<owner> <spender>",
	Action:    allowanceAction,
}

var transferFrom = cli.Command{
	Name:   "transferfrom",
	Usage:  "transfer tokens on behalf of an owner, spending the allowance",
	Action: transferFromAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "from",
			Usage:    "the owner of the tokens",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the recipient of the transfer",
			Required: true,
		},
		&amountFlag,
		&baseUnitsFlag,
	},
}

func balanceAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, "balance"}
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/accounts/"+url.PathEscape(ctx.Args().First()), nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func supplyAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/supply", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func accountsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/accounts", pageQuery(ctx))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func transferAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amount, err := amountFromFlags(ctx, tokenDecimals())
	if err != nil {
		return err
	}

	if _, err := client.post("/v1/transfer", map[string]string{
		"to":     ctx.String("to"),
		"amount": amount,
	}); err != nil {
		return err
	}

	fmt.Printf("transferred %s to %s\n", ctx.String("amount"), ctx.String("to"))
	return nil
}

func approveAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amount, err := amountFromFlags(ctx, tokenDecimals())
	if err != nil {
		return err
	}

	if _, err := client.post("/v1/approve", map[string]string{
		"spender": ctx.String("spender"),
		"amount":  amount,
	}); err != nil {
		return err
	}

	fmt.Printf("allowance of %s set to %s\n", ctx.String("spender"), ctx.String("amount"))
	return nil
}

func allowanceAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return &invalidUsageError{ctx, "allowance"}
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get(fmt.Sprintf(
		"/v1/allowances/%s/%s",
		url.PathEscape(ctx.Args().Get(0)), url.PathEscape(ctx.Args().Get(1)),
	), nil)
	if err != nil {
		return err
	}

	if v, ok := resp["allowance"].(string); ok {
		if display, err := fromBaseUnits(v, tokenDecimals()); err == nil {
			resp["display_allowance"] = display
		}
	}

	printRespJSON(resp)
	return nil
}

func transferFromAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amount, err := amountFromFlags(ctx, tokenDecimals())
	if err != nil {
		return err
	}

	if _, err := client.post("/v1/transfer-from", map[string]string{
		"from":   ctx.String("from"),
		"to":     ctx.String("to"),
		"amount": amount,
	}); err != nil {
		return err
	}

	fmt.Printf(
		"transferred %s from %s to %s\n",
		ctx.String("amount"), ctx.String("from"), ctx.String("to"),
	)
	return nil
}

func pageQuery(ctx *cli.Context) url.Values {
	query := url.Values{}
	if ctx.IsSet("page") {
		query.Set("page", fmt.Sprint(ctx.Int("page")))
	}
	if ctx.IsSet("size") {
		query.Set("size", fmt.Sprint(ctx.Int("size")))
	}
	return query
}
