package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

var collateral = cli.Command{
	Name:   "collateral",
	Usage:  "get the state of the collateral vault",
	Action: collateralAction,
	Subcommands: []*cli.Command{
		{
			Name:   "deposit",
			Usage:  "deposit collateral into the vault",
			Action: depositCollateralAction,
			Flags: []cli.Flag{
				&amountFlag,
				&baseUnitsFlag,
			},
		},
		{
			Name:   "withdraw",
			Usage:  "withdraw available collateral from the vault",
			Action: withdrawCollateralAction,
			Flags: []cli.Flag{
				&amountFlag,
				&baseUnitsFlag,
			},
		},
	},
}

var exchange = cli.Command{
	Name:   "exchange",
	Usage:  "get the state of the redemption engine",
	Action: exchangeInfoAction,
	Subcommands: []*cli.Command{
		{
			Name:   "quote",
			Usage:  "get the collateral paid out for redeeming an amount of tokens",
			Action: quoteAction,
			Flags: []cli.Flag{
				&amountFlag,
				&baseUnitsFlag,
			},
		},
		{
			Name:   "redeem",
			Usage:  "burn tokens in exchange for collateral",
			Action: redeemAction,
			Flags: []cli.Flag{
				&amountFlag,
				&baseUnitsFlag,
				&cli.StringFlag{
					Name:  "recipient",
					Usage: "the account receiving the collateral, the caller if omitted",
				},
			},
		},
		{
			Name:   "pause",
			Usage:  "stop accepting redemptions",
			Action: pauseAction,
		},
		{
			Name:   "resume",
			Usage:  "resume accepting redemptions",
			Action: resumeAction,
		},
		{
			Name:   "rate",
			Usage:  "set the exchange rate in basis points, 10000 is 1:1",
			Action: setRateAction,
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:     "rate",
					Usage:    "the collateral paid per token in basis points",
					Required: true,
				},
			},
		},
		{
			Name:   "redemptions",
			Usage:  "list the redemptions, optionally filtered by account",
			Action: listRedemptionsAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "account", Usage: "the requester"},
				&pageFlag,
				&sizeFlag,
			},
		},
	},
}

func collateralAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/collateral", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func depositCollateralAction(ctx *cli.Context) error {
	return collateralOperation(ctx, "/v1/collateral/deposit")
}

func withdrawCollateralAction(ctx *cli.Context) error {
	return collateralOperation(ctx, "/v1/collateral/withdraw")
}

func collateralOperation(ctx *cli.Context, path string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amount, err := amountFromFlags(ctx, collateralDecimals())
	if err != nil {
		return err
	}

	resp, err := client.post(path, map[string]string{"amount": amount})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func exchangeInfoAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/exchange", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func quoteAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amount, err := amountFromFlags(ctx, tokenDecimals())
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("amount", amount)

	resp, err := client.get("/v1/exchange/quote", query)
	if err != nil {
		return err
	}
	canRedeem, err := client.get("/v1/exchange/can-redeem", query)
	if err != nil {
		return err
	}
	resp["can_redeem"] = canRedeem["can_redeem"]

	if v, ok := resp["output_amount"].(string); ok {
		if display, err := fromBaseUnits(v, collateralDecimals()); err == nil {
			resp["display_output_amount"] = display
		}
	}

	printRespJSON(resp)
	return nil
}

func redeemAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amount, err := amountFromFlags(ctx, tokenDecimals())
	if err != nil {
		return err
	}

	resp, err := client.post("/v1/exchange/redeem", map[string]string{
		"amount":    amount,
		"recipient": ctx.String("recipient"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func pauseAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if _, err := client.post("/v1/exchange/pause", nil); err != nil {
		return err
	}

	fmt.Println("exchange paused")
	return nil
}

func resumeAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if _, err := client.post("/v1/exchange/resume", nil); err != nil {
		return err
	}

	fmt.Println("exchange resumed")
	return nil
}

func setRateAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if _, err := client.post("/v1/exchange/rate", map[string]uint64{
		"rate": ctx.Uint64("rate"),
	}); err != nil {
		return err
	}

	fmt.Printf("exchange rate set to %d\n", ctx.Uint64("rate"))
	return nil
}

func listRedemptionsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	query := pageQuery(ctx)
	if account := ctx.String("account"); len(account) > 0 {
		query.Set("account", account)
	}

	resp, err := client.get("/v1/exchange/redemptions", query)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
