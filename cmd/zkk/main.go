package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	zkkDataDir = btcutil.AppDataDir("zkk", false)
	statePath  = filepath.Join(zkkDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "zkk CLI"
	app.Usage = "Command line interface for zkkd daemon operators and holders"
	app.Commands = append(
		app.Commands,
		&config,
		&info,
		&token,
		&mint,
		&balance,
		&supply,
		&accounts,
		&transfer,
		&approve,
		&allowance,
		&transferFrom,
		&peer,
		&send,
		&messages,
		&collateral,
		&exchange,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(zkkDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(zkkDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[zkk] %v\n", err)
	}
	os.Exit(1)
}
