//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	goredis "github.com/redis/go-redis/v9"

	server "hotel_concierge/internal/adapters/http_server"
	mcpserver "hotel_concierge/internal/adapters/mcp_server"
	"hotel_concierge/internal/adapters/observability"
	redisad "hotel_concierge/internal/adapters/redis"
	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
	mysqlrepo "hotel_concierge/internal/storage/mysql"
	"hotel_concierge/internal/storage/seed"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=concierge",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "concierge")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// wireStack assembles the production wiring over MySQL and a miniredis cache.
func wireStack(t *testing.T) (*httptest.Server, *miniredis.Miniredis) {
	t.Helper()
	ctx := context.Background()
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := repo.Seed(ctx, seed.Default()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	clock := func() time.Time { return time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC) }
	q := app.NewQueryService(repo, cache, time.Minute, app.WithClock(clock))
	res := app.NewReservationService(repo, app.WithClock(clock))
	srs := app.NewServiceRequestService(repo, app.WithClock(clock))

	srv := server.New(server.Options{Timeout: 5 * time.Second})
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.Mount("/mcp", mcpserver.New(mcpserver.Services{Queries: q, Reservations: res, Requests: srs}).HTTPHandler())
	srv.MountHandlers(&server.Handlers{Q: q, R: res, SR: srs})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, mr
}

func TestHTTP_EndToEnd_BookAndCancel(t *testing.T) {
	ts, mr := wireStack(t)

	// room types are cached after the first read
	res, err := http.Get(ts.URL + "/v1/room-types")
	if err != nil {
		t.Fatalf("GET room-types: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("room-types status %d", res.StatusCode)
	}
	if !mr.Exists("concierge:room_types") {
		t.Fatal("expected room types in cache")
	}

	body := `{"guest_name":"E2E Guest","room_type":"deluxe","check_in":"2025-03-01","check_out":"2025-03-04","guests":2}`
	res, err = http.Post(ts.URL+"/v1/reservations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST reservation: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", res.StatusCode)
	}
	var r domain.Reservation
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.RoomNumber != "203" || r.TotalAmount != 657 {
		t.Fatalf("unexpected reservation: %+v", r)
	}

	res2, err := http.Post(ts.URL+"/v1/reservations/"+r.ConfirmationCode+"/cancel", "application/json", nil)
	if err != nil {
		t.Fatalf("POST cancel: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("cancel status %d", res2.StatusCode)
	}

	res3, err := http.Post(ts.URL+"/v1/reservations/"+r.ConfirmationCode+"/cancel", "application/json", nil)
	if err != nil {
		t.Fatalf("POST cancel again: %v", err)
	}
	defer res3.Body.Close()
	if res3.StatusCode != http.StatusConflict {
		t.Fatalf("second cancel status %d, want 409", res3.StatusCode)
	}
}

func TestMCP_OverStreamableHTTP(t *testing.T) {
	ts, _ := wireStack(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "e2e", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: ts.URL + "/mcp"}, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer session.Close()

	made, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "make_reservation",
		Arguments: map[string]any{
			"guest_name": "Streamer", "room_type": "suite",
			"check_in_date": "2025-03-10", "check_out_date": "2025-03-12", "num_guests": 3,
		},
	})
	if err != nil {
		t.Fatalf("make_reservation: %v", err)
	}
	if made.IsError {
		t.Fatalf("make_reservation tool error: %+v", made.Content)
	}
	var out mcpserver.ReservationResult
	raw, _ := json.Marshal(made.StructuredContent)
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RoomNumber != "204" || out.TotalAmount != 798 {
		t.Fatalf("unexpected reservation: %+v", out)
	}

	got, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_reservation",
		Arguments: map[string]any{"confirmation_number": out.ConfirmationNumber},
	})
	if err != nil || got.IsError {
		t.Fatalf("get_reservation: err=%v result=%+v", err, got)
	}

	rooms, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "hotel://rooms"})
	if err != nil {
		t.Fatalf("read hotel://rooms: %v", err)
	}
	if len(rooms.Contents) != 1 || !strings.Contains(rooms.Contents[0].Text, "Executive Suite") {
		t.Fatalf("unexpected resource: %+v", rooms.Contents)
	}
}
