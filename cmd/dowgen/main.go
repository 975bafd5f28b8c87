// Package main is the dowgen CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/worksite/dowgen/internal/cli"
	"github.com/worksite/dowgen/internal/config"
	"github.com/worksite/dowgen/internal/export"
	"github.com/worksite/dowgen/internal/models"
	"github.com/worksite/dowgen/internal/readback"
	"github.com/worksite/dowgen/internal/session"
	"github.com/worksite/dowgen/internal/store"
	"github.com/worksite/dowgen/internal/variables"
	"github.com/worksite/dowgen/internal/watcher"
	"github.com/worksite/dowgen/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/dowgen/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, and if neither file exists the built-in defaults apply. Returns
// the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "(defaults)", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "generate":
		runGenerate()
	case "export":
		runExport()
	case "vars":
		runVars()
	case "template":
		runTemplate()
	case "validate":
		runValidate()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("dowgen version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// components holds the initialized stores and session for one command run.
type components struct {
	Cfg       *config.Config
	Logger    *zap.Logger
	Templates *store.FSTemplateStore
	VarStore  *store.SQLiteStore
	Session   *session.EditorSession
}

func (c *components) Close() {
	if c.Session != nil {
		c.Session.Close()
	}
	if c.VarStore != nil {
		_ = c.VarStore.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}

func initComponents(configPath, projectOverride string) (*components, error) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if projectOverride != "" {
		cfg.Project = projectOverride
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", resolvedPath), zap.String("project", cfg.Project))

	templates := store.NewFSTemplateStore(cfg.Template.Path)
	varStore, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to initialize variable store: %w", err)
	}

	sess := session.NewEditorSession(templates, varStore, cfg.Project,
		session.WithLogger(logger),
		session.WithAutosaveDelay(time.Duration(cfg.Editor.AutosaveDelayMS)*time.Millisecond),
		session.WithToastSuppress(time.Duration(cfg.Editor.ToastSuppressMS)*time.Millisecond),
		session.WithNotify(func(msg string) { fmt.Println(msg) }),
	)

	return &components{
		Cfg:       cfg,
		Logger:    logger,
		Templates: templates,
		VarStore:  varStore,
		Session:   sess,
	}, nil
}

func runGenerate() {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	project := fs.String("project", "", "project id (default from config)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c, err := initComponents(*configPath, *project)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Session.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		os.Exit(1)
	}
	res, occs, err := c.Session.Generate(ctx)
	if err != nil {
		// A missing template still yields the fixed no-content document;
		// report the condition but keep the output renderable.
		fmt.Fprintf(os.Stderr, "Note: %v\n", err)
	}
	if err := cli.WriteGeneration(os.Stdout, res, occs, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	project := fs.String("project", "", "project id (default from config)")
	formatFlag := fs.String("format", "pdf", "export format: md, txt, pdf, docx, or xlsx")
	bold := fs.Bool("bold", false, "render resolved variable values in bold (pdf/docx)")
	verify := fs.Bool("verify", false, "read the artifact back and report its text (pdf/docx)")
	out := fs.String("out", "", "output file path (default: <output_dir>/dow<ext>)")
	_ = fs.Parse(os.Args[2:])

	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c, err := initComponents(*configPath, *project)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Session.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		os.Exit(1)
	}
	res, _, genErr := c.Session.Generate(ctx)
	if genErr != nil {
		fmt.Fprintf(os.Stderr, "Note: %v\n", genErr)
	}

	engine := export.NewEngine(c.Cfg.Export, export.WithLogger(c.Logger))
	exporter := session.NewExporter(engine)
	art, err := exporter.Export(ctx, format, res.Document, c.Session.Variables(), *bold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = filepath.Join(c.Cfg.Export.OutputDir, "dow"+art.Ext)
	}
	if err := os.WriteFile(path, art.Data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %s (%d bytes)\n", path, len(art.Data))

	if *verify {
		switch format {
		case export.FormatPDF:
			pages, err := readback.PDFPageCount(art.Data)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Verify failed: %v\n", err)
				os.Exit(1)
			}
			text, err := readback.PDFText(art.Data)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Verify failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Verified: %d page(s), %d characters of text\n", pages, len(text))
		case export.FormatDocx:
			text, err := readback.DocxText(art.Data)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Verify failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Verified: %d characters of text\n", len(text))
		default:
			fmt.Println("Verify only applies to pdf and docx exports.")
		}
	}
}

func runVars() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: dowgen vars <list|merge|set|kind|add|rm> [flags] [args]")
		fmt.Println("  dowgen vars list                 List the project's variables")
		fmt.Println("  dowgen vars merge                Merge template placeholders into the set and save")
		fmt.Println("  dowgen vars set <NAME> <value>   Set a variable's value and save")
		fmt.Println("  dowgen vars kind <NAME> <type>   Change a variable's type (string, number, date)")
		fmt.Println("  dowgen vars add <NAME> [type]    Add a variable not present in the template")
		fmt.Println("  dowgen vars rm <NAME>            Remove a variable and save")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("vars", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	project := fs.String("project", "", "project id (default from config)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[3:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c, err := initComponents(*configPath, *project)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Session.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		os.Exit(1)
	}

	switch sub {
	case "list":
		if err := cli.WriteVariables(os.Stdout, c.Session.Variables(), format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "merge":
		// Load already merged template names into the working copy; persist it.
		if err := c.Session.Save(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
			os.Exit(1)
		}
	case "set":
		if fs.NArg() < 2 {
			fmt.Println("Usage: dowgen vars set <NAME> <value>")
			os.Exit(1)
		}
		if err := c.Session.SetValue(fs.Arg(0), fs.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "Set failed: %v\n", err)
			os.Exit(1)
		}
		if err := c.Session.Save(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
			os.Exit(1)
		}
	case "kind":
		if fs.NArg() < 2 {
			fmt.Println("Usage: dowgen vars kind <NAME> <string|number|date>")
			os.Exit(1)
		}
		if err := c.Session.SetKind(fs.Arg(0), models.Kind(fs.Arg(1))); err != nil {
			fmt.Fprintf(os.Stderr, "Kind change failed: %v\n", err)
			os.Exit(1)
		}
		if err := c.Session.Save(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
			os.Exit(1)
		}
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: dowgen vars add <NAME> [string|number|date]")
			os.Exit(1)
		}
		kind := models.KindString
		if fs.NArg() >= 2 {
			kind = models.Kind(fs.Arg(1))
		}
		if err := c.Session.AddVariable(fs.Arg(0), kind); err != nil {
			fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
			os.Exit(1)
		}
		if err := c.Session.Save(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
			os.Exit(1)
		}
	case "rm":
		if fs.NArg() < 1 {
			fmt.Println("Usage: dowgen vars rm <NAME>")
			os.Exit(1)
		}
		if err := c.Session.RemoveVariable(fs.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Remove failed: %v\n", err)
			os.Exit(1)
		}
		if err := c.Session.Save(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown vars subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runTemplate() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: dowgen template <show|upload> [flags] [file.md]")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[3:])

	c, err := initComponents(*configPath, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()
	ctx := context.Background()

	switch sub {
	case "show":
		tmpl, err := c.Templates.Fetch(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fetch failed: %v\n", err)
			os.Exit(1)
		}
		if tmpl == "" {
			fmt.Println("No template uploaded.")
			return
		}
		fmt.Print(tmpl)
	case "upload":
		if fs.NArg() < 1 {
			fmt.Println("Usage: dowgen template upload <file.md>")
			os.Exit(1)
		}
		path := fs.Arg(0)
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
			os.Exit(1)
		}
		if err := c.Templates.Upload(ctx, filepath.Base(path), data); err != nil {
			fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Template uploaded: %s\n", c.Templates.Path())
	default:
		fmt.Printf("Unknown template subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runValidate() {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	project := fs.String("project", "", "project id (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c, err := initComponents(*configPath, *project)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Session.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		os.Exit(1)
	}
	violations := variables.ValidateAll(c.Session.Variables())
	if err := cli.WriteViolations(os.Stdout, violations, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	project := fs.String("project", "", "project id (default from config)")
	_ = fs.Parse(os.Args[2:])

	c, err := initComponents(*configPath, *project)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Session.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		os.Exit(1)
	}

	debounce := time.Duration(c.Cfg.Editor.WatchDebounceMS) * time.Millisecond
	w := watcher.NewTemplateWatcher(c.Templates.Path(), func(path string) {
		if err := c.Session.ReloadTemplate(ctx); err != nil {
			c.Logger.Warn("template reload failed", zap.String("path", path), zap.Error(err))
			return
		}
		res, _, err := c.Session.Generate(ctx)
		if err != nil {
			c.Logger.Warn("regeneration failed", zap.Error(err))
			return
		}
		c.Logger.Info("template changed, document regenerated",
			zap.String("path", path),
			zap.Int("length", len(res.Document)),
			zap.Strings("missing", res.Missing),
		)
	}, watcher.WithLogger(c.Logger), watcher.WithDebounce(debounce))

	if err := w.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start watcher: %v\n", err)
		os.Exit(1)
	}
	defer w.Stop()
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", c.Templates.Path())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	fmt.Println("Stopping...")
}

func printUsage() {
	fmt.Println(`dowgen - Description-of-Work document engine

Usage:
  dowgen generate [flags]            Generate the document from template + variables
  dowgen export [flags]              Export the generated document to a file
  dowgen vars <subcommand>           Inspect or edit the project's variables
  dowgen template <show|upload>      Show or replace the DOW template
  dowgen validate [flags]            Validate the variable set
  dowgen watch [flags]               Regenerate whenever the template changes
  dowgen version                     Show version
  dowgen help                        Show this help

Generate Flags:
  --config string    Config file path (default: /usr/local/etc/dowgen/config.yaml)
  --project string   Project id (default from config)
  --output string    Output format: text, compact, or json (default: text)

Export Flags:
  --config string    Config file path
  --project string   Project id (default from config)
  --format string    md, txt, pdf, docx, or xlsx (default: pdf)
  --bold             Render resolved variable values in bold (pdf/docx)
  --verify           Read the artifact back and report its text (pdf/docx)
  --out string       Output file path (default: <output_dir>/dow<ext>)

Examples:
  dowgen template upload dow.md
  dowgen vars merge
  dowgen vars set CLIENT "Acme Construction Ltd"
  dowgen generate
  dowgen export --format docx --bold
  dowgen export --format xlsx --out variables.xlsx
  dowgen watch`)
}
