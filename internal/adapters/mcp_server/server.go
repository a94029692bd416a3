package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_concierge/internal/adapters/observability"
	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
)

const (
	serverName    = "Hotel Concierge"
	serverVersion = "1.0.0"
)

// Services are the application services behind the tools and resources.
type Services struct {
	Queries      *app.QueryService
	Reservations *app.ReservationService
	Requests     *app.ServiceRequestService
}

// Server hosts the concierge tools and resources.
type Server struct {
	mcpServer *mcp.Server
}

func New(svc Services) *Server {
	s := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(s, CheckAvailabilityTool(), observed("check_availability", CheckAvailabilityHandler(svc.Queries)))
	mcp.AddTool(s, MakeReservationTool(), observed("make_reservation", MakeReservationHandler(svc.Reservations)))
	mcp.AddTool(s, GetReservationTool(), observed("get_reservation", GetReservationHandler(svc.Reservations)))
	mcp.AddTool(s, CancelReservationTool(), observed("cancel_reservation", CancelReservationHandler(svc.Reservations)))
	mcp.AddTool(s, SubmitServiceRequestTool(), observed("submit_service_request", SubmitServiceRequestHandler(svc.Requests)))
	mcp.AddTool(s, GetHotelInfoTool(), observed("get_hotel_info", GetHotelInfoHandler(svc.Queries)))
	mcp.AddTool(s, GetRoomTypesTool(), observed("get_room_types", GetRoomTypesHandler(svc.Queries)))

	s.AddResource(InfoResource(), InfoResourceHandler(svc.Queries))
	s.AddResource(RoomsResource(), RoomsResourceHandler(svc.Queries))
	s.AddResource(AttractionsResource(), AttractionsResourceHandler(svc.Queries))

	return &Server{mcpServer: s}
}

// Serve runs one session over transport until it closes or ctx ends.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// ServeStdio serves a single client over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves the streamable HTTP transport; every session shares this server.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcpServer }, nil)
}

// observed records metrics and a log line for every tool call.
func observed[In, Out any](tool string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		res, out, err := h(ctx, req, input)
		dur := time.Since(start)
		observability.ObserveTool(tool, err, dur)

		var ev *zerolog.Event
		switch {
		case err == nil:
			ev = log.Info()
		case domain.IsClientError(err):
			ev = log.Warn().Err(err)
		default:
			ev = log.Error().Err(err)
		}
		ev.Str("tool", tool).
			Str("outcome", observability.Outcome(err)).
			Dur("dur", dur).
			Msg("tool call")
		return res, out, err
	}
}
