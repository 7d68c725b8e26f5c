package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/shopparse"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Loader   shopparse.DocumentLoader
	Registry shopparse.ExtractorRegistry
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool   `short:"v" env:"SHOPPARSE_VERBOSE" help:"Log per-document diagnostics"`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" env:"SHOPPARSE_LOG_FORMAT" help:"Diagnostics format (text, json)"`

	Parse    ParseCmd    `cmd:"" help:"Convert saved pages in a directory to CSV or SQLite"`
	Classify ClassifyCmd `cmd:"" help:"Print the detected page type of saved pages"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	Dir         string `short:"d" default:"./data/samples" env:"SHOPPARSE_DIR" help:"Directory holding saved HTML pages"`
	Glob        string `default:"*.html" env:"SHOPPARSE_GLOB" help:"File name pattern within the directory"`
	Type        string `short:"t" default:"auto" env:"SHOPPARSE_TYPE" help:"Page type (auto, category, search, shop, product)"`
	URL         string `name:"url" env:"SHOPPARSE_URL" help:"Source URL for pages that do not record one"`
	Format      string `short:"f" enum:"csv,sqlite" default:"csv" env:"SHOPPARSE_FORMAT" help:"Output format (csv, sqlite)"`
	Out         string `short:"o" default:"items.csv" env:"SHOPPARSE_OUT" help:"Listing CSV output path"`
	DetailOut   string `name:"detail-out" default:"detailed_items.csv" env:"SHOPPARSE_DETAIL_OUT" help:"Product detail CSV output path"`
	DB          string `name:"db" default:"shopparse.db" env:"SHOPPARSE_DB" help:"SQLite output path"`
	Concurrency int    `short:"c" default:"4" env:"SHOPPARSE_CONCURRENCY" help:"Concurrent document limit"`
	Dedupe      bool   `env:"SHOPPARSE_DEDUPE" help:"Drop listing items already seen in an earlier page"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	Files []string `arg:"" name:"file" help:"Saved HTML files" type:"existingfile"`
}
