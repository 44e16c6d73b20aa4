package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
)

const (
	rpcServerKey          = "rpcserver"
	tokenKey              = "token"
	tokenDecimalsKey      = "token_decimals"
	collateralDecimalsKey = "collateral_decimals"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  "rpcserver",
		Usage: "zkkd daemon address, scheme://host:port",
		Value: "http://localhost:9945",
	}

	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "bearer token used to authenticate against the daemon",
	}

	tokenFileFlag = cli.StringFlag{
		Name:  "token-file",
		Usage: "path of the file containing the bearer token, ie. <datadir>/tokens/operator.jwt",
	}

	tokenDecimalsFlag = cli.IntFlag{
		Name:  "token-decimals",
		Usage: "number of decimals used to display token amounts",
		Value: 18,
	}

	collateralDecimalsFlag = cli.IntFlag{
		Name:  "collateral-decimals",
		Usage: "number of decimals used to display collateral amounts",
		Value: 6,
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the zkk CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&rpcFlag,
				&tokenFlag,
				&tokenFileFlag,
				&tokenDecimalsFlag,
				&collateralDecimalsFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key + ": " + state[key])
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	token := c.String("token")
	if tokenFile := c.String("token-file"); len(tokenFile) > 0 {
		buf, err := os.ReadFile(tokenFile)
		if err != nil {
			return fmt.Errorf("failed to read token file: %w", err)
		}
		token = strings.TrimSpace(string(buf))
	}

	return setState(map[string]string{
		rpcServerKey:          strings.TrimSuffix(c.String("rpcserver"), "/"),
		tokenKey:              token,
		tokenDecimalsKey:      fmt.Sprint(c.Int("token-decimals")),
		collateralDecimalsKey: fmt.Sprint(c.Int("collateral-decimals")),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)
	return nil
}
