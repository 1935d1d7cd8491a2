package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/viant/voucher/itinerary"
	"github.com/viant/voucher/service"
	"github.com/viant/voucher/voucher"
)

var (
	dateColor      = color.New(color.FgCyan, color.Bold)
	matchedColor   = color.New(color.FgGreen)
	unmatchedColor = color.New(color.FgYellow)
)

// newLogf returns a zerolog-backed Logf hook; progress lines are shown only when verbose.
func newLogf(verbose bool) func(format string, args ...any) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	return func(format string, args ...any) {
		logger.Info().Msgf(format, args...)
	}
}

func printMatch(w io.Writer, resp *service.MatchResponse) {
	if !resp.Matched {
		unmatchedColor.Fprintf(w, "%s\n", itinerary.Placeholder(resp.Query))
		fmt.Fprintf(w, "  best score %.4f below threshold %.2f\n", resp.Score, resp.Threshold)
		return
	}
	matchedColor.Fprintf(w, "%s -> %s", resp.Query, resp.Label)
	fmt.Fprintf(w, " (%s, %.4f)\n", resp.Pass, resp.Score)
	fmt.Fprintf(w, "  %s\n", resp.Output)
}

func printDocument(w io.Writer, doc *voucher.Document) {
	fmt.Fprintln(w, doc.Title)
	fmt.Fprintf(w, "Ref: %s\n", doc.ID)
	for i := range doc.Rows {
		row := &doc.Rows[i]
		fmt.Fprintln(w)
		dateColor.Fprintln(w, row.DateText())
		for _, line := range strings.Split(row.Text, "\n") {
			if strings.HasPrefix(line, itinerary.PlaceholderPrefix) {
				unmatchedColor.Fprintln(w, line)
				continue
			}
			fmt.Fprintln(w, line)
		}
	}
}

func printCatalog(w io.Writer, info service.CatalogInfo) {
	fmt.Fprintf(w, "%d entries (model=%s)\n", info.Entries, info.Model)
	for i, label := range info.Labels {
		fmt.Fprintf(w, "%4d  %s\n", i+1, label)
	}
}
