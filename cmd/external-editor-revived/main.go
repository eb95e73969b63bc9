// Package main is the native messaging host executable started by the
// mail client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"

	"github.com/machinefabric/exteditor-go/config"
	"github.com/machinefabric/exteditor-go/editor"
	"github.com/machinefabric/exteditor-go/frame"
	"github.com/machinefabric/exteditor-go/host"
	"github.com/machinefabric/exteditor-go/logging"
	"github.com/machinefabric/exteditor-go/manifest"
	"github.com/machinefabric/exteditor-go/protocol"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, os.Stdout))
}

func run(args []string, stderr, stdout io.Writer) int {
	fs := flag.NewFlagSet("external-editor-revived", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var showVersion bool
	fs.BoolVar(&showVersion, "v", false, "print version and exit")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	configPath := fs.String("config", config.DefaultPath(), "path to YAML host configuration (optional)")
	fs.Usage = func() {
		if err := printHelp(stderr, stdout); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
		}
	}

	// The mail client passes the manifest path and extension id as
	// positional arguments; they are ignored.
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintln(stderr, versionString())
		return 0
	}

	if err := serve(*configPath); err != nil {
		fmt.Fprintf(stderr, "ExtEditorR: %v\n", err)
		return 1
	}
	return 0
}

func versionString() string {
	return fmt.Sprintf("External Editor Revived native messaging host for %s (%s) v%s",
		runtime.GOOS, runtime.GOARCH, protocol.HostVersion)
}

func printHelp(stderr, stdout io.Writer) error {
	path, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine program path: %w", err)
	}
	fmt.Fprintf(stderr, "%s\n\n", versionString())
	return manifest.New(path).PrintHelp(stderr, stdout, runtime.GOOS)
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Warnln("standard input is a terminal; this program is started by the mail client, run with -h for setup")
	}

	codec, err := frame.CodecByName(cfg.Transport.Codec)
	if err != nil {
		return err
	}
	ch := frame.NewChannel(os.Stdin, os.Stdout, codec, cfg.Limits())

	ctrl := &editor.Controller{
		Platform:        editor.Current(),
		Runner:          editor.ExecRunner{},
		Log:             logger,
		TempDir:         cfg.Editor.TemporaryDirectory,
		FallbackCharset: cfg.Editor.FallbackCharset,
	}
	h, err := host.New(ch, ctrl, nil, cfg.Transport.ChunkBudget, logger)
	if err != nil {
		return err
	}

	logger.Infof("serving %s v%s (codec %s)", manifest.AppName, protocol.HostVersion, codec.Name())
	return h.Run(context.Background())
}
