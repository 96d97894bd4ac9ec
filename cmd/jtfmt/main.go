// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jtfmt reformats JSON text. It reads each named file (or standard
// input) with a permissive token reader, and writes the tokens to standard
// output in compact or indented form.
//
// Usage:
//
//	jtfmt [flags] [file ...]
//
// Settings may be loaded from a YAML file with -config; flags given on the
// command line override the file. For example:
//
//	formatting: indented
//	float-format: symbol
//	comments: true
//	reader:
//	  max-depth: 128
//	  multiple-content: true
//	writer:
//	  indentation: 4
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/jtext"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/goccy/go-yaml"
)

var (
	configPath = flag.String("config", "", "Path of a YAML settings file")
	indent     = flag.Int("indent", 0, "Indent output by this many spaces per level (0 means compact)")
	comments   = flag.Bool("comments", false, "Copy comments to the output")
	multi      = flag.Bool("multi", false, "Accept multiple top-level values per input")
	strict     = flag.Bool("strict", false, "Accept only standard JSON")
	verbose    = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [file ...]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if *verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		level.Error(logger).Log("msg", "Invalid configuration", "err", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "indent":
			cfg.Formatting = "indented"
			cfg.Writer.Indentation = *indent
			if *indent <= 0 {
				cfg.Formatting = "none"
			}
		case "comments":
			cfg.Comments = *comments
		case "multi":
			cfg.Reader.MultipleContent = *multi
		case "strict":
			cfg.Reader.Strict = *strict
		}
	})
	if err := cfg.resolve(); err != nil {
		level.Error(logger).Log("msg", "Invalid configuration", "err", err)
		os.Exit(2)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if err := run(cfg, inputs, os.Stdout, logger); err != nil {
		level.Error(logger).Log("msg", "Reformatting failed", "err", err)
		os.Exit(1)
	}
}

// config holds the settings of the program. Enumerated settings are given by
// name, and are resolved into the reader and writer options by resolve.
type config struct {
	Reader jtext.ReaderOptions `yaml:"reader"`
	Writer jtext.WriterOptions `yaml:"writer"`

	FloatParse   string `yaml:"float-parse"`
	DateParse    string `yaml:"date-parse"`
	Formatting   string `yaml:"formatting"`
	FloatFormat  string `yaml:"float-format"`
	StringEscape string `yaml:"string-escape"`
	DateFormat   string `yaml:"date-format"`
	QuoteChar    string `yaml:"quote-char"`
	IndentChar   string `yaml:"indent-char"`
	Comments     bool   `yaml:"comments"`
}

// loadConfig reads settings from the YAML file at path. If path is empty, it
// returns the default settings.
func loadConfig(path string) (*config, error) {
	cfg := &config{Reader: jtext.ReaderOptions{MaxDepth: jtext.DefaultMaxDepth}}
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return cfg, nil
}

// resolve parses the named settings of c into its reader and writer options.
func (c *config) resolve() error {
	settings := []struct {
		name, value string
		set         func(byte)
	}{
		{"float-parse", c.FloatParse, func(b byte) { c.Reader.FloatParse = jtext.FloatParseHandling(b) }},
		{"date-parse", c.DateParse, func(b byte) { c.Reader.DateParse = jtext.DateParseHandling(b) }},
		{"formatting", c.Formatting, func(b byte) { c.Writer.Formatting = jtext.Formatting(b) }},
		{"float-format", c.FloatFormat, func(b byte) { c.Writer.FloatFormat = jtext.FloatFormatHandling(b) }},
		{"string-escape", c.StringEscape, func(b byte) { c.Writer.StringEscape = jtext.StringEscapeHandling(b) }},
		{"date-format", c.DateFormat, func(b byte) { c.Writer.DateFormat = jtext.DateFormatHandling(b) }},
	}
	for _, s := range settings {
		v, err := jtext.ParseSetting(s.name, s.value)
		if err != nil {
			return err
		}
		s.set(v)
	}

	var err error
	if c.Writer.QuoteChar, err = singleRune("quote-char", c.QuoteChar); err != nil {
		return err
	}
	if c.Writer.IndentChar, err = singleRune("indent-char", c.IndentChar); err != nil {
		return err
	}
	return nil
}

func singleRune(name, s string) (rune, error) {
	switch rs := []rune(s); len(rs) {
	case 0:
		return 0, nil
	case 1:
		return rs[0], nil
	}
	return 0, fmt.Errorf("invalid %s %q: must be a single character", name, s)
}

// run reformats each of the named inputs to out. The input "-" denotes
// standard input.
func run(cfg *config, inputs []string, out io.Writer, logger log.Logger) error {
	w, err := cfg.Writer.NewWriter(out)
	if err != nil {
		return err
	}
	for _, name := range inputs {
		if err := copyInput(cfg, name, w, logger); err != nil {
			w.Close()
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return w.Close()
}

func copyInput(cfg *config, name string, w *jtext.Writer, logger log.Logger) error {
	var in io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	r := cfg.Reader.NewReader(in)
	if err := w.WriteAll(r, cfg.Comments); err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "Input complete", "input", name, "end", r.Position())
	return nil
}
