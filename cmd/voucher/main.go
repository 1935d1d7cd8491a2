package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/joho/godotenv"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	vmcp "github.com/viant/voucher/mcp"
	"github.com/viant/voucher/service"
	"github.com/viant/voucher/voucher"
)

func main() {
	startGops()
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "match":
		matchCmd(os.Args[2:])
	case "resolve":
		resolveCmd(os.Args[2:])
	case "catalog":
		catalogCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: voucher <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  match    Match activity names against the catalog")
	fmt.Fprintln(os.Stderr, "  resolve  Build a dated service voucher from an itinerary")
	fmt.Fprintln(os.Stderr, "  catalog  List catalog labels")
	fmt.Fprintln(os.Stderr, "  serve    Run the MCP server")
}

// commonFlags are shared by every command that loads a catalog.
type commonFlags struct {
	config        *string
	catalogURL    *string
	sheet         *string
	embedder      *string
	model         *string
	cache         *string
	threshold     *float64
	substringOnly *bool
	verbose       *bool
}

func registerCommonFlags(flags *flag.FlagSet) *commonFlags {
	return &commonFlags{
		config:        flags.String("config", "", "config yaml (optional, defaults to ~/voucher/config.yaml if present)"),
		catalogURL:    flags.String("catalog", "", "catalog spreadsheet URL (.xlsx/.xls; local, gs:// or s3://)"),
		sheet:         flags.String("sheet", "", "catalog sheet name (default first sheet)"),
		embedder:      flags.String("embedder", "", "embedder: openai|ollama|vertexai|simple"),
		model:         flags.String("model", "", "embedding model"),
		cache:         flags.String("cache", "", "SQLite label-embedding cache path"),
		threshold:     flags.Float64("threshold", 0, "semantic acceptance threshold (default 0.6, -1 accepts any nearest label)"),
		substringOnly: flags.Bool("substring-only", false, "disable the semantic fallback"),
		verbose:       flags.Bool("v", false, "verbose logging"),
	}
}

func (c *commonFlags) loadConfig() (*service.Config, error) {
	cfg := &service.Config{}
	if configPath := resolveConfigPath(*c.config); configPath != "" {
		loaded, err := service.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if *c.catalogURL != "" {
		cfg.Catalog.URL = *c.catalogURL
	}
	if *c.sheet != "" {
		cfg.Catalog.Sheet = *c.sheet
	}
	if *c.embedder != "" {
		cfg.Embedder.Provider = *c.embedder
	}
	if *c.model != "" {
		cfg.Embedder.Model = *c.model
	}
	if *c.cache != "" {
		cfg.Cache.Driver = "sqlite"
		cfg.Cache.DSN = *c.cache
	}
	if *c.threshold != 0 {
		cfg.Matching.Threshold = *c.threshold
	}
	if *c.substringOnly {
		cfg.Matching.SubstringOnly = true
	}
	return cfg, nil
}

// openService builds the service and loads the catalog.
func (c *commonFlags) openService(ctx context.Context) (*service.Service, *service.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	svc, err := service.NewFromConfig(ctx, cfg, newLogf(*c.verbose))
	if err != nil {
		return nil, nil, fmt.Errorf("service init: %w", err)
	}
	if _, err := svc.LoadCatalog(ctx); err != nil {
		_ = svc.Close()
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return svc, cfg, nil
}

func matchCmd(args []string) {
	flags := flag.NewFlagSet("match", flag.ExitOnError)
	common := registerCommonFlags(flags)
	query := flags.String("query", "", "activity name (or pass names as arguments)")
	mcpAddr := flags.String("mcp-addr", "", "query a running MCP server instead of loading the catalog")
	flags.Parse(args)

	queries := flags.Args()
	if *query != "" {
		queries = append([]string{*query}, queries...)
	}
	if len(queries) == 0 {
		flags.Usage()
		os.Exit(2)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var responses []*service.MatchResponse
	if *mcpAddr != "" {
		for _, q := range queries {
			resp, err := mcpMatch(ctx, *mcpAddr, q)
			if err != nil {
				log.Fatalf("match: %v", err)
			}
			responses = append(responses, resp)
		}
	} else {
		svc, _, err := common.openService(ctx)
		if err != nil {
			log.Fatalf("match: %v", err)
		}
		defer func() { _ = svc.Close() }()
		for _, q := range queries {
			resp, err := svc.Match(ctx, q)
			if err != nil {
				log.Fatalf("match: %v", err)
			}
			responses = append(responses, resp)
		}
	}
	for _, resp := range responses {
		printMatch(os.Stdout, resp)
	}
}

func resolveCmd(args []string) {
	flags := flag.NewFlagSet("resolve", flag.ExitOnError)
	common := registerCommonFlags(flags)
	itinerary := flags.String("itinerary", "", "itinerary text")
	input := flags.String("file", "", "itinerary file URL ('-' for stdin)")
	start := flags.String("start", "", "start date YYYY-MM-DD or DD-Mon-YYYY (default today)")
	title := flags.String("title", "", "voucher title")
	output := flags.String("out", "", "output URL; .pdf renders a PDF, otherwise text (default stdout)")
	format := flags.String("format", "", "output format: text|pdf (default from --out extension)")
	mcpAddr := flags.String("mcp-addr", "", "resolve on a running MCP server (text output only)")
	flags.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	text, err := readItinerary(ctx, *itinerary, *input, os.Stdin)
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		flags.Usage()
		os.Exit(2)
	}
	startDate, err := parseStartDate(*start, time.Now())
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	outFormat, err := outputFormat(*format, *output)
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	if *mcpAddr != "" {
		out, err := mcpResolve(ctx, *mcpAddr, &vmcp.ResolveInput{Itinerary: text, StartDate: startDate.Format("2006-01-02"), Title: *title})
		if err != nil {
			log.Fatalf("resolve: %v", err)
		}
		fmt.Print(out.Text)
		return
	}

	svc, _, err := common.openService(ctx)
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	defer func() { _ = svc.Close() }()

	doc, err := svc.Resolve(ctx, service.ResolveRequest{Itinerary: text, Start: startDate, Title: *title})
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	if *output == "" && outFormat == service.FormatText {
		printDocument(os.Stdout, doc)
		return
	}
	if err := writeDocument(ctx, svc, doc, outFormat, *output, os.Stdout); err != nil {
		log.Fatalf("resolve: %v", err)
	}
	if *output != "" {
		log.Printf("voucher %s written to %s", doc.ID, *output)
	}
}

func catalogCmd(args []string) {
	flags := flag.NewFlagSet("catalog", flag.ExitOnError)
	common := registerCommonFlags(flags)
	flags.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	svc, _, err := common.openService(ctx)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	defer func() { _ = svc.Close() }()
	printCatalog(os.Stdout, svc.Info())
}

func readItinerary(ctx context.Context, text, input string, stdin io.Reader) (string, error) {
	switch {
	case text != "":
		return text, nil
	case input == "-":
		data, err := io.ReadAll(stdin)
		return string(data), err
	case input != "":
		data, err := afs.New().DownloadWithURL(ctx, input)
		if err != nil {
			return "", fmt.Errorf("read itinerary %s: %w", input, err)
		}
		return string(data), nil
	}
	return "", nil
}

func parseStartDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range []string{"2006-01-02", voucher.DateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q", value)
}

func outputFormat(format, output string) (service.Format, error) {
	name := format
	if name == "" && output != "" {
		name = strings.ToLower(path.Ext(url.Path(output)))
	}
	if f, ok := service.ParseFormat(name); ok {
		return f, nil
	}
	if format == "" {
		return service.FormatText, nil
	}
	return "", fmt.Errorf("unsupported format %q", format)
}

func writeDocument(ctx context.Context, svc *service.Service, doc *voucher.Document, format service.Format, output string, stdout io.Writer) error {
	var buf bytes.Buffer
	if err := svc.Render(&buf, doc, format); err != nil {
		return err
	}
	if output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	return afs.New().Upload(ctx, output, file.DefaultFileOsMode, &buf)
}

func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := home + "/voucher/config.yaml"
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}
