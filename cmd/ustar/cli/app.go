// Package cli provides ustar commands: create, manifest, list, and cat.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/NVIDIA/ustar/cmd/ustar/config"
	"github.com/NVIDIA/ustar/cmn/nlog"

	"github.com/fatih/color"
	"github.com/urfave/cli"
)

const (
	cliName  = "ustar"
	cliDescr = `Creates, lists, and extracts POSIX ustar archives (optionally gzip- or lz4-compressed).
   Defaults (owner, modes, checksum type, log directory) come from ` + "$HOME/.config/ustar/config.json" + `
   or from the file named by ` + config.EnvConfig + `.`
)

type acli struct {
	app       *cli.App
	outWriter io.Writer
	errWriter io.Writer
}

var cfg *config.Config

// color
var (
	fred, fcyan, fblue func(a ...any) string
)

// main method
func Run(version string, args []string) error {
	a := acli{app: cli.NewApp(), outWriter: os.Stdout, errWriter: os.Stderr}
	a.init(version)
	return a.runOnce(args)
}

func (a *acli) runOnce(args []string) error {
	err := a.app.Run(args)
	return formatErr(err)
}

func (a *acli) init(version string) {
	app := a.app

	fcyan = color.New(color.FgHiCyan).SprintFunc()
	fred = color.New(color.FgHiRed).SprintFunc()
	fblue = color.New(color.FgHiBlue).SprintFunc()

	app.Name = cliName
	app.Usage = "command-line utility for ustar archives"
	app.Version = version
	app.HideHelp = true
	app.Flags = []cli.Flag{cli.HelpFlag, noColorFlag}
	app.Writer = a.outWriter
	app.ErrWriter = a.errWriter
	app.Before = onBeforeCommand
	app.Description = cliDescr
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version, V",
		Usage: "print only the version",
	}
	app.Commands = []cli.Command{
		createCmd,
		manifestCmd,
		listCmd,
		catCmd,
	}
}

func onBeforeCommand(c *cli.Context) (err error) {
	if cfg, err = config.Load(); err != nil {
		return err
	}
	// the library disables coloring on its own when stdout is not a terminal;
	// here we can only disable it manually
	if flagIsSet(c, noColorFlag) || cfg.NoColor {
		color.NoColor = true
	}
	if cfg.Log.Dir != "" {
		nlog.SetTitle(cliName + " version " + c.App.Version + ", args: " + strings.Join(os.Args[1:], " ") + "\n")
		nlog.SetLogDirRole(cfg.Log.Dir, cliName)
	}
	nlog.SetAlsoToStderr(cfg.Log.AlsoToStderr)
	return nil
}

//
// errors
//

type errUsage struct {
	context *cli.Context
	message string
}

func (e *errUsage) Error() string {
	cmd := e.context.Command
	return "Incorrect '" + e.context.App.Name + " " + cmd.Name + "' usage: " + e.message + ".\n\n" +
		"USAGE: " + e.context.App.Name + " " + cmd.Name + " " + cmd.ArgsUsage
}

func missingArgumentsError(c *cli.Context, missingArgs ...string) *errUsage {
	return &errUsage{context: c, message: "missing arguments \"" + strings.Join(missingArgs, ", ") + "\""}
}

func redErr(err error) error {
	msg := strings.TrimRight(err.Error(), "\n")
	return errors.New(fred("Error: ") + msg)
}

func formatErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errUsage); ok {
		return err
	}
	return redErr(err)
}

//
// flags
//

func flagIsSet(c *cli.Context, flag cli.Flag) bool {
	name := cleanFlag(flag.GetName())
	return c.GlobalIsSet(name) || c.IsSet(name)
}

// Returns the value of flag (either parent or local scope)
func parseStrFlag(c *cli.Context, flag cli.Flag) string {
	name := cleanFlag(flag.GetName())
	if c.GlobalIsSet(name) {
		return c.GlobalString(name)
	}
	return c.String(name)
}

// If the flag has multiple values (separated by comma), take the first one
func cleanFlag(flag string) string {
	return strings.TrimSpace(strings.Split(flag, ",")[0])
}
