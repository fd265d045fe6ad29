package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/validate"
)

type CurrentTimeInput struct{}

type currentTimeOutput struct {
	ISOTime  string `json:"isoTime"`
	UnixTime int64  `json:"unixTime"`
}

// GetCurrentTime reports the gateway's clock. Useful for computing
// relative timeframes; makes no upstream call.
func (h *Handler) GetCurrentTime(ctx context.Context, req *mcp.CallToolRequest, in CurrentTimeInput) (*mcp.CallToolResult, any, error) {
	now := h.now().UTC()
	h.recordCall(h.sessionContext(req.Session), validate.ToolCurrentTime)
	return jsonResult(currentTimeOutput{
		ISOTime:  now.Format(time.RFC3339),
		UnixTime: now.Unix(),
	}), nil, nil
}
