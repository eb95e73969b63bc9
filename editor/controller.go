package editor

import (
	"context"
	"os"

	"github.com/gologme/log"

	"github.com/machinefabric/exteditor-go/compose"
	"github.com/machinefabric/exteditor-go/eml"
	"github.com/machinefabric/exteditor-go/logging"
	"github.com/machinefabric/exteditor-go/session"
)

// Controller runs one edit session end to end
type Controller struct {
	Platform Platform
	Runner   Runner
	Log      *log.Logger
	// TempDir is used when a request names no temporary directory
	TempDir         string
	FallbackCharset string
	// LineEnding overrides the platform line ending of written files
	LineEnding string
	Getenv     func(string) string
}

// Edit writes the request's document to a temporary file, runs the editor
// on it and parses the result. The temporary file is removed on every
// path. s is advanced through EditorRunning and Parsing.
func (c *Controller) Edit(ctx context.Context, s *session.Session, req *compose.Request) (res *eml.Result, err error) {
	cfg := req.Configuration
	logger := c.Log
	if logger == nil {
		logger = logging.Discard()
	}

	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	shell := cfg.Shell
	if shell == "" {
		shell = c.Platform.DefaultShell(getenv)
	}
	template, err := ResolveTemplate(c.Platform, cfg.Template, cfg.Editor, cfg.Terminal)
	if err != nil {
		return nil, &ProcessSpawnError{Err: err}
	}

	dir := cfg.TemporaryDirectory
	if dir == "" {
		dir = c.TempDir
	}
	tf, f, err := CreateTempFile(dir, s.Key)
	if err != nil {
		return nil, &IOError{Op: "create", Path: dir, Err: err}
	}
	s.SetTempPath(tf.Path)
	defer func() {
		if rerr := tf.Remove(); rerr != nil {
			logger.Warnf("session %s: failed to remove %s: %v", s.Key, tf.Path, rerr)
		}
	}()

	opts := eml.OptionsFrom(cfg)
	opts.LineEnding = c.LineEnding
	werr := eml.Write(f, &req.ComposeDetails, opts)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return nil, &IOError{Op: "write", Path: tf.Path, Err: werr}
	}

	argv, err := CommandLine(c.Platform, shell, template, tf.Path)
	if err != nil {
		return nil, &ProcessSpawnError{Err: err}
	}

	if err := s.Advance(session.EditorRunning); err != nil {
		return nil, err
	}
	logger.Debugf("session %s: running %q", s.Key, argv)
	if err := c.Runner.Run(ctx, argv); err != nil {
		return nil, err
	}

	if err := s.Advance(session.Parsing); err != nil {
		return nil, err
	}
	in, err := os.Open(tf.Path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: tf.Path, Err: err}
	}
	defer in.Close()

	res, err = eml.Parse(in, &req.ComposeDetails, eml.ParseOptions{
		AllowCustomHeaders: cfg.AllowCustomHeaders,
		FallbackCharset:    c.FallbackCharset,
	})
	if err != nil {
		return nil, &IOError{Op: "parse", Path: tf.Path, Err: err}
	}
	return res, nil
}
