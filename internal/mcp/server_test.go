package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/registry"
	"github.com/ziadkadry99/manualsite/internal/site"
)

const testTOC = `{"introduction":{"name":"Introduction"},"getting_started":{"name":"Getting Started","children":{"installation":"Installation"}}}`

// mockTags implements manual.TagSource for testing.
type mockTags struct {
	tags []string
	err  error
}

func (m *mockTags) ListTags(context.Context, string, string) ([]string, error) {
	return m.tags, m.err
}

func newTestServer(t *testing.T, tags *mockTags) *Server {
	t.Helper()
	docs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1.0.0/docs/toc.json", "/master/docs/toc.json":
			fmt.Fprint(w, testTOC)
		case "/master/docs/introduction.md":
			fmt.Fprint(w, "# Introduction\nWelcome.")
		case "/v1.0.0/docs/getting_started/installation.md":
			fmt.Fprint(w, "# Installation\nRun the installer.")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(docs.Close)

	entry := registry.Entry{
		Name:          "manual",
		Title:         "Deno Manual",
		Owner:         "denoland",
		Repo:          "deno",
		RawBaseURL:    docs.URL + "/{version}/docs",
		ViewBaseURL:   "https://github.com/denoland/deno/blob/{version}/docs",
		DefaultBranch: "master",
		DefaultPath:   manual.DefaultPath,
		VersionPrefix: "v1",
	}
	var ts manual.TagSource
	if tags != nil {
		ts = tags
	}
	return NewServer([]*site.Manual{site.NewManual(&manual.Source{Entry: entry}, ts, time.Minute)})
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{listManualsTool, "list_manuals"},
		{listVersionsTool, "list_versions"},
		{tableOfContentsTool, "table_of_contents"},
		{readPageTool, "read_page"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, nil)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if _, ok := srv.manuals["manual"]; !ok {
		t.Error("manual not registered")
	}
}

func TestHandleListManuals(t *testing.T) {
	srv := newTestServer(t, nil)
	text := extractText(call(t, srv.handleListManuals, nil))
	if text != "manual: Deno Manual (default branch master)\n" {
		t.Errorf("unexpected listing %q", text)
	}
}

func TestHandleListVersions(t *testing.T) {
	t.Run("filtered catalog", func(t *testing.T) {
		srv := newTestServer(t, &mockTags{tags: []string{"v1.1.0", "v0.9.0", "v1.0.0"}})
		result := call(t, srv.handleListVersions, map[string]any{"manual": "manual"})
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if got := extractText(result); got != "master\nv1.1.0\nv1.0.0\n" {
			t.Errorf("versions = %q", got)
		}
	})

	t.Run("catalog failure", func(t *testing.T) {
		srv := newTestServer(t, &mockTags{err: errors.New("rate limited")})
		result := call(t, srv.handleListVersions, map[string]any{"manual": "manual"})
		if !result.IsError {
			t.Error("expected tool error")
		}
	})

	t.Run("no version source", func(t *testing.T) {
		srv := newTestServer(t, nil)
		result := call(t, srv.handleListVersions, map[string]any{"manual": "manual"})
		if got := extractText(result); got != "master\n" {
			t.Errorf("versions = %q", got)
		}
	})

	t.Run("unknown manual", func(t *testing.T) {
		srv := newTestServer(t, nil)
		if !call(t, srv.handleListVersions, map[string]any{"manual": "std"}).IsError {
			t.Error("expected error for unknown manual")
		}
	})

	t.Run("missing manual", func(t *testing.T) {
		srv := newTestServer(t, nil)
		if !call(t, srv.handleListVersions, map[string]any{}).IsError {
			t.Error("expected error for missing parameter")
		}
	})
}

func TestHandleTableOfContents(t *testing.T) {
	srv := newTestServer(t, nil)

	result := call(t, srv.handleTableOfContents, map[string]any{"identifier": "manual@v1.0.0"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	want := "manual@v1.0.0: 3 page(s)\n" +
		"- Introduction (path: introduction)\n" +
		"- Getting Started (path: getting_started)\n" +
		"  - Installation (path: getting_started/installation)\n"
	if got := extractText(result); got != want {
		t.Errorf("table of contents =\n%s\nwant\n%s", got, want)
	}

	if !call(t, srv.handleTableOfContents, map[string]any{"identifier": "manual@v9.9.9"}).IsError {
		t.Error("expected error for a version without a table of contents")
	}
	if !call(t, srv.handleTableOfContents, map[string]any{"identifier": "@v1.0.0"}).IsError {
		t.Error("expected error for an identifier without a name")
	}
}

func TestHandleReadPage(t *testing.T) {
	srv := newTestServer(t, nil)

	t.Run("default page", func(t *testing.T) {
		result := call(t, srv.handleReadPage, map[string]any{"identifier": "manual"})
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := extractText(result)
		if !strings.HasPrefix(text, "Source: https://github.com/denoland/deno/blob/master/docs/introduction.md\n\n") {
			t.Errorf("missing source line: %q", text)
		}
		if !strings.Contains(text, "Welcome.") {
			t.Errorf("missing body: %q", text)
		}
	})

	t.Run("pinned page with markdown extension", func(t *testing.T) {
		result := call(t, srv.handleReadPage, map[string]any{
			"identifier": "manual@v1.0.0",
			"path":       "getting_started/installation.md",
		})
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(extractText(result), "Run the installer.") {
			t.Errorf("unexpected body: %q", extractText(result))
		}
	})

	t.Run("missing page", func(t *testing.T) {
		result := call(t, srv.handleReadPage, map[string]any{"identifier": "manual", "path": "nope"})
		if !result.IsError {
			t.Error("expected error for missing page")
		}
	})
}
