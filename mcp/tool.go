package mcp

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"

	"github.com/viant/voucher/service"
	"github.com/viant/voucher/voucher"
)

//go:embed tools/resolve.md
var descResolve string

//go:embed tools/match.md
var descMatch string

//go:embed tools/catalog.md
var descCatalog string

//go:embed tools/reload.md
var descReload string

func registerTools(registry *protoserver.Registry, h *Handler) error {
	if err := protoserver.RegisterTool[*ResolveInput, *ResolveOutput](registry, "resolve", descResolve, func(ctx context.Context, in *ResolveInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.resolve(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*MatchInput, *MatchOutput](registry, "match", descMatch, func(ctx context.Context, in *MatchInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.match(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*CatalogInput, *CatalogOutput](registry, "catalog", descCatalog, func(ctx context.Context, in *CatalogInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.catalog(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ReloadInput, *ReloadOutput](registry, "reload", descReload, func(ctx context.Context, in *ReloadInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.reload(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	return nil
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResult(payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	b, _ := json.Marshal(payload)
	return &schema.CallToolResult{
		Content: []schema.CallToolResultContentElem{
			schema.TextContent{Type: "text", Text: string(b)},
		},
		StructuredContent: map[string]any{"result": payload},
	}, nil
}

func (h *Handler) resolve(ctx context.Context, in *ResolveInput) (*ResolveOutput, error) {
	started := time.Now()
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil || strings.TrimSpace(in.Itinerary) == "" {
		return nil, fmt.Errorf("mcp: missing itinerary")
	}
	start, err := parseStartDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	doc, err := h.service.Resolve(ctx, service.ResolveRequest{Itinerary: in.Itinerary, Start: start, Title: in.Title})
	if err != nil {
		return nil, err
	}
	var text bytes.Buffer
	if err := h.service.Render(&text, doc, service.FormatText); err != nil {
		return nil, err
	}
	out := &ResolveOutput{ID: doc.ID, Title: doc.Title, Text: text.String()}
	for i := range doc.Rows {
		row := &doc.Rows[i]
		item := ResolveRow{Date: row.DateText(), Text: row.Text}
		for _, activity := range row.Activities {
			if !activity.Matched {
				item.Unmatched = append(item.Unmatched, activity.Query)
			}
		}
		out.Rows = append(out.Rows, item)
	}
	if h.metricsLog {
		log.Printf("mcp metric tool=resolve rows=%d elapsed=%s", len(out.Rows), time.Since(started))
	}
	return out, nil
}

func (h *Handler) match(ctx context.Context, in *MatchInput) (*MatchOutput, error) {
	started := time.Now()
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil || strings.TrimSpace(in.Query) == "" {
		return nil, fmt.Errorf("mcp: missing query")
	}
	out, err := h.service.Match(ctx, in.Query)
	if err != nil {
		return nil, err
	}
	if h.metricsLog {
		log.Printf("mcp metric tool=match pass=%s score=%.4f elapsed=%s", out.Pass, out.Score, time.Since(started))
	}
	return out, nil
}

func (h *Handler) catalog(_ context.Context, in *CatalogInput) (*CatalogOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	info := h.service.Info()
	if in == nil || !in.Labels {
		info.Labels = nil
	}
	return &info, nil
}

func (h *Handler) reload(ctx context.Context, _ *ReloadInput) (*ReloadOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	idx, err := h.service.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return &ReloadOutput{Entries: idx.Len(), Model: idx.Model()}, nil
}

func parseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", voucher.DateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("mcp: invalid startDate %q", value)
}
