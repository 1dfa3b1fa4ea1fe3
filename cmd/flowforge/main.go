// Command flowforge edits and compiles control-logic documents.
//
//	flowforge serve    -port 8090
//	flowforge generate -in document.json [-out runtime.yaml]
//	flowforge parse    -in runtime.yaml  [-out document.json]
//	flowforge validate -in document.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mhaugen/flowforge/pkg/api"
	"github.com/mhaugen/flowforge/pkg/graph"
	"github.com/mhaugen/flowforge/pkg/logging"
	"github.com/mhaugen/flowforge/pkg/metrics"
	"github.com/mhaugen/flowforge/pkg/runtimecfg"
	"github.com/mhaugen/flowforge/pkg/store"
	"github.com/mhaugen/flowforge/pkg/validation"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "parse":
		err = runParse(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: flowforge <serve|generate|parse|validate> [flags]")
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8090, "HTTP listen port")
	level := fs.String("log-level", "info", "log level (debug|info|warn|error)")
	fs.Parse(args)

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(*level))
	reg := metrics.New()
	st := store.New(store.WithLogger(logger), store.WithMetrics(reg))

	server, err := api.NewServer(st, reg, logger, api.Config{Port: *port, Version: version})
	if err != nil {
		return err
	}
	return server.Start()
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	in := fs.String("in", "", "document JSON file (required)")
	out := fs.String("out", "", "output config file (default stdout)")
	fs.Parse(args)

	doc, err := readDocument(*in)
	if err != nil {
		return err
	}
	text, err := runtimecfg.Generate(doc)
	if err != nil {
		return err
	}
	return writeOutput(*out, []byte(text))
}

func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	in := fs.String("in", "", "config file (required)")
	out := fs.String("out", "", "output document JSON file (default stdout)")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("-in is required")
	}
	text, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	doc, warnings, err := runtimecfg.Parse(string(text))
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(*out, append(data, '\n'))
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	in := fs.String("in", "", "document JSON file (required)")
	fs.Parse(args)

	doc, err := readDocument(*in)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("structure: %w", err)
	}
	failures := 0
	for _, node := range doc.Nodes {
		if res := validation.ValidateFields(node); !res.Valid {
			failures++
			fmt.Printf("node %s (%s): %s\n", node.ID, node.Kind, res.Error)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d node(s) failed field validation", failures)
	}
	fmt.Printf("ok: %d nodes, %d edges\n", len(doc.Nodes), len(doc.Edges))
	return nil
}

func readDocument(path string) (*graph.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("-in is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc graph.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
