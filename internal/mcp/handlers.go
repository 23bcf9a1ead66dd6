package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/site"
)

// handleListManuals lists the registered manuals in registration order.
func (s *Server) handleListManuals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, name := range s.order {
		e := s.manuals[name].Entry
		sb.WriteString(fmt.Sprintf("%s: %s (default branch %s)\n", e.Name, e.Title, e.DefaultBranch))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListVersions returns the version catalog of a manual.
func (s *Server) handleListVersions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("manual")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: manual"), nil
	}
	m, ok := s.manuals[name]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown manual %q", name)), nil
	}
	if m.Versions == nil {
		return mcp.NewToolResultText(m.Entry.DefaultBranch + "\n"), nil
	}

	versions, err := m.Versions.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list versions: %v", err)), nil
	}
	var sb strings.Builder
	sb.WriteString(m.Entry.DefaultBranch + "\n")
	for _, v := range versions {
		sb.WriteString(v + "\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleTableOfContents lists the pages of a manual version.
func (s *Server) handleTableOfContents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := request.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: identifier"), nil
	}
	m, id, errResult := s.lookup(token)
	if errResult != nil {
		return errResult, nil
	}

	toc, err := m.TOC.Load(ctx, id.Version)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load table of contents: %v", err)), nil
	}
	pages := manual.Flatten(m.Entry.Name, toc)
	if pages.Len() == 0 {
		return mcp.NewToolResultText("The table of contents is empty."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %d page(s)\n", id, pages.Len()))
	for _, p := range pages.Pages {
		indent := ""
		if strings.Count(p.DocPath, "/") > 1 {
			indent = "  "
		}
		sb.WriteString(fmt.Sprintf("%s- %s (path: %s)\n", indent, p.Name, strings.TrimPrefix(p.DocPath, "/")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleReadPage returns the markdown of one page.
func (s *Server) handleReadPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := request.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: identifier"), nil
	}
	m, id, errResult := s.lookup(token)
	if errResult != nil {
		return errResult, nil
	}

	loc, err := manual.ResolveDefault(token, []string{request.GetString("path", "")}, m.Entry.DefaultPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc = loc.Canonical()

	body := m.Content.Fetch(ctx, id.Version, loc.Path)
	if body == manual.NotFoundMarkdown {
		return mcp.NewToolResultError(fmt.Sprintf("page %s not found in %s", loc.Path, id)), nil
	}

	var sb strings.Builder
	if view := m.Source.ViewURL(id.Version, loc.Path); view != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n\n", view))
	}
	sb.WriteString(body)
	return mcp.NewToolResultText(sb.String()), nil
}

// lookup resolves an identifier token to its manual. The returned result is
// non-nil when the token is unusable.
func (s *Server) lookup(token string) (*site.Manual, manual.Identifier, *mcp.CallToolResult) {
	id, err := manual.ParseIdentifier(token)
	if err != nil {
		return nil, id, mcp.NewToolResultError(err.Error())
	}
	m, ok := s.manuals[id.Name]
	if !ok {
		return nil, id, mcp.NewToolResultError(fmt.Sprintf("unknown manual %q", id.Name))
	}
	return m, id, nil
}
