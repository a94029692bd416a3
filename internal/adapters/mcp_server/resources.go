package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"hotel_concierge/internal/app"
)

func InfoResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "hotel_info",
		Title:       "Hotel information",
		Description: "General hotel information and policies, one entry per topic",
		MIMEType:    "application/json",
		URI:         "hotel://info",
	}
}

func RoomsResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "room_types",
		Title:       "Room types",
		Description: "Room types, rates and amenities",
		MIMEType:    "application/json",
		URI:         "hotel://rooms",
	}
}

func AttractionsResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "local_attractions",
		Title:       "Local attractions",
		Description: "Local attractions and recommendations",
		MIMEType:    "application/json",
		URI:         "hotel://attractions",
	}
}

func InfoResourceHandler(q *app.QueryService) mcp.ResourceHandler {
	return jsonResource(InfoResource(), func(ctx context.Context) (any, error) {
		return q.ListInfo(ctx)
	})
}

func RoomsResourceHandler(q *app.QueryService) mcp.ResourceHandler {
	return jsonResource(RoomsResource(), func(ctx context.Context) (any, error) {
		types, err := q.ListRoomTypes(ctx)
		if err != nil {
			return nil, err
		}
		return toRoomTypeResults(types), nil
	})
}

func AttractionsResourceHandler(q *app.QueryService) mcp.ResourceHandler {
	return jsonResource(AttractionsResource(), func(ctx context.Context) (any, error) {
		as, err := q.Attractions(ctx)
		if err != nil {
			return nil, err
		}
		return toAttractionResults(as), nil
	})
}

// jsonResource serves a snapshot of load's result as indented JSON.
func jsonResource(res *mcp.Resource, load func(context.Context) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := res.URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		payload, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", res.URI, err)
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", res.URI, err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: res.MIMEType,
					Text:     string(data),
				},
			},
		}, nil
	}
}
