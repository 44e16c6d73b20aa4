package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"github.com/zakoken/zkkd/pkg/mathutil"
)

// toBaseUnits converts an amount expressed in units of 10^decimals into a
// string of base units.
func toBaseUnits(amount string, decimals int32) (string, error) {
	units, err := mathutil.ParseAmount(amount, uint(decimals))
	if err != nil {
		if errors.Is(err, mathutil.ErrOverflow) {
			return "", fmt.Errorf("amount %s is too large", amount)
		}
		return "", fmt.Errorf("invalid amount %s: %w", amount, err)
	}
	if units == 0 {
		return "", fmt.Errorf("amount must be greater than zero")
	}
	return strconv.FormatUint(units, 10), nil
}

// fromBaseUnits converts a string of base units into units of 10^decimals.
func fromBaseUnits(amount string, decimals int32) (string, error) {
	units, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid amount %s", amount)
	}
	return mathutil.FormatAmount(units, uint(decimals)), nil
}

func getDecimals(key string, defaultValue int32) int32 {
	state, err := getState()
	if err != nil {
		return defaultValue
	}
	d, err := strconv.ParseInt(state[key], 10, 32)
	if err != nil {
		return defaultValue
	}
	return int32(d)
}

func tokenDecimals() int32 {
	return getDecimals(tokenDecimalsKey, 18)
}

func collateralDecimals() int32 {
	return getDecimals(collateralDecimalsKey, 6)
}

var (
	amountFlag = cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount, in display units unless --base-units is set",
		Required: true,
	}

	baseUnitsFlag = cli.BoolFlag{
		Name:  "base-units",
		Usage: "whether --amount is expressed in base units",
	}
)

// amountFromFlags reads the --amount flag and returns it in base units.
func amountFromFlags(ctx *cli.Context, decimals int32) (string, error) {
	if ctx.Bool("base-units") {
		decimals = 0
	}
	return toBaseUnits(ctx.String("amount"), decimals)
}
