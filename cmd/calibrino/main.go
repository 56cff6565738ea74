package main

import (
	"context"
	"fmt"
	"os"

	"github.com/calibro/calibrino/internal/cli"
)

func main() {
	inv, err := cli.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitUsage)
	}

	code := cli.Execute(context.Background(), inv, os.Stdout, os.Stderr, cli.SurveyPrompter{})
	os.Exit(code)
}
