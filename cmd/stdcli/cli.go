package stdcli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

var (
	Binary   string
	Version  string
	Commands []*cli.Command
)

func init() {
	Version = "0.3.0"
	Binary = filepath.Base(os.Args[0])
	Commands = []*cli.Command{}
}

func New() *cli.App {
	app := &cli.App{
		Name:     Binary,
		Usage:    "provision and tear down the inventory pipeline",
		Commands: Commands,
		Version:  Version,
	}

	app.CommandNotFound = func(c *cli.Context, cmd string) {
		fmt.Fprintf(os.Stderr, "No such command %q. Try `%s help`\n", cmd, Binary)
		os.Exit(1)
	}

	return app
}

func AddCommand(cmd *cli.Command) {
	Commands = append(Commands, cmd)
}

func Error(err error) {
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
