package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	css "github.com/cssparse/css3"
	"github.com/cssparse/css3/ast"
	"github.com/cssparse/css3/charset"
	"github.com/cssparse/css3/color"
	"github.com/cssparse/css3/config"
	"github.com/cssparse/css3/state"
)

var errNoInput = errors.New("nothing to process, no input specified")

// document is what gets dumped for a single input.
type document struct {
	Source   string `yaml:"source" json:"source"`
	Encoding string `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	Errors   int    `yaml:"errors" json:"errors"`
	Nodes    []any  `yaml:"nodes" json:"nodes"`
}

func newDocument(source, encoding string, nodes []ast.Node) *document {
	return &document{
		Source:   source,
		Encoding: encoding,
		Errors:   len(css.Errors(nodes)),
		Nodes:    ast.Dump(nodes),
	}
}

// readSource reads a file, "-" stands for standard input.
func readSource(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// output writes v to w in the configured format.
func output(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

// forEachSource calls fn for every FILE argument and writes the documents it
// returns. Failing inputs do not stop processing, errors are collected.
func forEachSource(ctx context.Context, cmd *cli.Command, fn func(env *state.LocalEnv, name string, data []byte) *document) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() == 0 {
		return errNoInput
	}

	for _, name := range cmd.Args().Slice() {
		if ctx.Err() != nil {
			return multierr.Append(err, ctx.Err())
		}
		data, er := readSource(name)
		if er != nil {
			env.Log.Warn("Unable to read input", zap.String("source", name), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("unable to read '%s': %w", name, er))
			continue
		}
		doc := fn(env, name, data)
		if doc.Errors > 0 {
			env.Log.Info("Input has parse errors", zap.String("source", name), zap.Int("errors", doc.Errors))
		}
		if er := output(cmd.Root().Writer, env.Cfg.Output.Format, doc); er != nil {
			return multierr.Append(err, fmt.Errorf("unable to write output for '%s': %w", name, er))
		}
	}
	return err
}

func decode(env *state.LocalEnv, data []byte) (string, string) {
	return charset.Decode(data, env.Cfg.Parse.ProtocolEncoding, env.Cfg.Parse.Environment())
}

func dumpTokens(ctx context.Context, cmd *cli.Command) error {
	return forEachSource(ctx, cmd, func(env *state.LocalEnv, name string, data []byte) *document {
		text, enc := decode(env, data)
		return newDocument(name, enc, env.Parser.Tokenize(text, env.Cfg.Parse.SkipComments))
	})
}

func dumpRules(ctx context.Context, cmd *cli.Command) error {
	return forEachSource(ctx, cmd, func(env *state.LocalEnv, name string, data []byte) *document {
		protocol := env.Cfg.Parse.ProtocolEncoding
		if cmd.IsSet("charset") {
			protocol = cmd.String("charset")
		}
		nodes, enc := env.Parser.ParseStylesheetBytes(data, protocol, env.Cfg.Parse.Environment(),
			env.Cfg.Parse.SkipComments, env.Cfg.Parse.SkipWhitespace)
		return newDocument(name, enc, nodes)
	})
}

func dumpDeclarations(ctx context.Context, cmd *cli.Command) error {
	return forEachSource(ctx, cmd, func(env *state.LocalEnv, name string, data []byte) *document {
		text, enc := decode(env, data)
		return newDocument(name, enc, env.Parser.ParseDeclarationList(text, env.Cfg.Parse.SkipComments, env.Cfg.Parse.SkipWhitespace))
	})
}

// colorResult is what gets printed for a single color value.
type colorResult struct {
	Value     string `yaml:"value" json:"value"`
	Canonical string `yaml:"canonical,omitempty" json:"canonical,omitempty"`
	Hex       string `yaml:"hex,omitempty" json:"hex,omitempty"`
	Valid     bool   `yaml:"valid" json:"valid"`
}

func printColors(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() == 0 {
		return errNoInput
	}

	results := make([]colorResult, 0, cmd.Args().Len())
	for _, v := range cmd.Args().Slice() {
		r := colorResult{Value: v}
		switch c := env.Parser.ParseColor(v).(type) {
		case color.RGBA:
			r.Valid, r.Canonical, r.Hex = true, c.String(), c.Hex()
		case nil:
		default:
			r.Valid, r.Canonical = true, c.String()
		}
		results = append(results, r)
	}
	return output(cmd.Root().Writer, env.Cfg.Output.Format, results)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	out := cmd.Root().Writer
	if len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputing configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
