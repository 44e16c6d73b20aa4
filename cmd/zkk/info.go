package main

import (
	"github.com/urfave/cli/v2"
)

var info = cli.Command{
	Name:   "info",
	Usage:  "get info about the daemon and the token it serves",
	Action: infoAction,
}

func infoAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/info", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
