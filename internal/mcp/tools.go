package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listManualsTool defines the list_manuals MCP tool.
var listManualsTool = mcp.NewTool("list_manuals",
	mcp.WithDescription("List the manuals this server can read."),
)

// listVersionsTool defines the list_versions MCP tool.
var listVersionsTool = mcp.NewTool("list_versions",
	mcp.WithDescription("List the versions a manual can be read at, default branch first."),
	mcp.WithString("manual",
		mcp.Required(),
		mcp.Description("Manual name"),
	),
)

// tableOfContentsTool defines the table_of_contents MCP tool.
var tableOfContentsTool = mcp.NewTool("table_of_contents",
	mcp.WithDescription("Get the pages of a manual version in reading order."),
	mcp.WithString("identifier",
		mcp.Required(),
		mcp.Description("Manual name, optionally pinned to a version: manual or manual@v1.2.0"),
	),
)

// readPageTool defines the read_page MCP tool.
var readPageTool = mcp.NewTool("read_page",
	mcp.WithDescription("Get the markdown source of one manual page."),
	mcp.WithString("identifier",
		mcp.Required(),
		mcp.Description("Manual name, optionally pinned to a version: manual or manual@v1.2.0"),
	),
	mcp.WithString("path",
		mcp.Description("Page path such as getting_started/installation (default: the manual's first page)"),
	),
)
