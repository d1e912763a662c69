// Copyright 2024 The Sentinel Authors
// This file is part of the Sentinel bytecode analyzer.
//
// Sentinel is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sentinel is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Sentinel. If not, see <http://www.gnu.org/licenses/>.

// sentinel is the command-line and HTTP entrypoint for the bytecode
// analyzer: decode one bytecode string and print its report, or serve the
// same pipeline over HTTP.
package main

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/sentinel-sh/evmscan/internal/sentinelapi"
	"github.com/sentinel-sh/evmscan/log"
	"github.com/sentinel-sh/evmscan/sentinelconfig"
)

var (
	gitCommit = ""
	gitDate   = ""
)

var (
	bytecodeFlag = cli.StringFlag{
		Name:  "bytecode",
		Usage: "Hex-encoded contract bytecode to analyze (0x prefix optional)",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "Contract address to fetch and analyze (reserved, not implemented)",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "Output format: json or text",
		Value: "json",
	}
	serverFlag = cli.BoolFlag{
		Name:  "server",
		Usage: "Serve the analyzer over HTTP instead of analyzing once and exiting",
	}
	portFlag = cli.IntFlag{
		Name:  "port",
		Usage: "HTTP listen port when --server is set",
		Value: 3000,
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "Enable debug-level logging",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

func init() {
	cli.AppHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}

USAGE:
   {{.HelpName}} [options]

VERSION:
   {{.Version}}

OPTIONS:
   {{range .Flags}}{{.}}
   {{end}}
`
}

func main() {
	app := cli.NewApp()
	app.Name = "sentinel"
	app.Usage = "static security analyzer for EVM contract bytecode"
	app.Version = fmt.Sprintf("1.0.0-%s-%s", gitCommit, gitDate)
	app.Flags = []cli.Flag{
		bytecodeFlag,
		addressFlag,
		outputFlag,
		serverFlag,
		portFlag,
		verboseFlag,
		configFlag,
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	cfg := sentinelconfig.Defaults
	if file := ctx.String(configFlag.Name); file != "" {
		if err := sentinelconfig.LoadFile(file, &cfg); err != nil {
			return cli.NewExitError(fmt.Sprintf("loading config: %v", err), 1)
		}
	}
	if ctx.IsSet(outputFlag.Name) {
		cfg.OutputFormat = ctx.String(outputFlag.Name)
	}
	if ctx.IsSet(portFlag.Name) {
		cfg.Port = ctx.Int(portFlag.Name)
	}
	if ctx.IsSet(verboseFlag.Name) {
		cfg.Verbose = ctx.Bool(verboseFlag.Name)
	}

	logHandler := log.Root().GetHandler()
	if cfg.OutputFormat == "json" || ctx.Bool(serverFlag.Name) {
		logHandler = log.StreamHandler(os.Stderr, log.JSONFormat())
	}
	logLevel := log.LvlInfo
	if cfg.Verbose {
		logLevel = log.LvlDebug
	}
	log.SetRootHandler(log.LvlFilterHandler(logLevel, logHandler))

	sentinelconfig.ApplyEnv(&cfg)

	if ctx.Bool(serverFlag.Name) {
		return serve(cfg)
	}

	if ctx.String(addressFlag.Name) != "" {
		return cli.NewExitError("--address is reserved and not yet implemented; use --bytecode", 1)
	}
	hexBytecode := ctx.String(bytecodeFlag.Name)
	if hexBytecode == "" {
		return cli.NewExitError("one of --bytecode or --server is required", 1)
	}

	return analyzeOnce(hexBytecode, cfg.OutputFormat)
}

func serve(cfg sentinelconfig.Config) error {
	srv := sentinelapi.NewServer(cfg)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Info("sentinel listening", "addr", addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return cli.NewExitError(fmt.Sprintf("http server: %v", err), 1)
	}
	return nil
}
