package signal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/dkeye/rooms/internal/app"
	"github.com/dkeye/rooms/internal/app/orch"
	"github.com/dkeye/rooms/internal/config"
	"github.com/dkeye/rooms/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		ReadLimit:      32768,
		WriteWait:      time.Second,
		SendBuffer:     16,
		AllowedOrigins: []string{"*"},
		RateLimit:      100,
		RateWindow:     time.Second,
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
	}
	ctl := NewSignalWSController(o, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ctl.HandleSignal(ctx, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, o
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// next reads the next frame and decodes it into a generic map.
func next(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func expect(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	msg := next(t, conn)
	if msg["type"] != typ {
		t.Fatalf("expected %q, got %v", typ, msg)
	}
	return msg
}

func memberCount(msg map[string]any) int {
	members, _ := msg["members"].([]any)
	return len(members)
}

func TestCreateJoinAndDisconnect(t *testing.T) {
	srv, o := newTestServer(t)
	a := dial(t, srv)
	b := dial(t, srv)

	send(t, a, `{"type":"create","name":"A","settings":{"difficulty":["easy"],"topics":[],"problems":[{"title":"Two Sum","titleSlug":"two-sum","difficulty":"Easy"}]}}`)
	joined := expect(t, a, core.TypeJoined)
	code, _ := joined["code"].(string)
	if len(code) != app.CodeLen {
		t.Fatalf("unexpected code %q", code)
	}
	if state := expect(t, a, core.TypeRoomState); memberCount(state) != 1 {
		t.Fatalf("expected 1 member, got %v", state)
	}

	send(t, b, `{"type":"join","name":"B","code":"`+strings.ToLower(code)+`"}`)
	expect(t, b, core.TypeJoined)
	if state := expect(t, b, core.TypeRoomState); memberCount(state) != 2 {
		t.Fatalf("expected 2 members, got %v", state)
	}
	if state := expect(t, a, core.TypeRoomState); memberCount(state) != 2 {
		t.Fatalf("A should see 2 members, got %v", state)
	}

	send(t, a, `{"type":"update","problem":"Two Sum","problemSlug":"two-sum","status":"solving"}`)
	state := expect(t, b, core.TypeRoomState)
	first := state["members"].([]any)[0].(map[string]any)
	if first["activeSlug"] != "two-sum" || first["problem"] != "Two Sum" {
		t.Fatalf("unexpected member view %v", first)
	}
	expect(t, a, core.TypeRoomState)

	_ = b.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = b.Close()
	if state := expect(t, a, core.TypeRoomState); memberCount(state) != 1 {
		t.Fatalf("expected 1 member after disconnect, got %v", state)
	}

	deadline := time.Now().Add(2 * time.Second)
	for o.Registry.Count() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 registered connection, got %d", o.Registry.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	srv, _ := newTestServer(t)
	a := dial(t, srv)

	send(t, a, `{"type":"join","name":"A","code":"ZZZZZ"}`)
	msg := expect(t, a, core.TypeError)
	if msg["message"] != "Room not found" {
		t.Errorf("unexpected message %v", msg)
	}
}

func TestMalformedMessagesAreDropped(t *testing.T) {
	srv, _ := newTestServer(t)
	a := dial(t, srv)

	send(t, a, `not json`)
	send(t, a, `{"type":"join","name":"A"}`)
	send(t, a, `{"type":"update","status":"bogus"}`)
	send(t, a, `{"type":"update-settings","settings":{"problems":[]}}`)
	send(t, a, `{"type":"teleport"}`)
	send(t, a, `{"type":"ping"}`)

	// Nothing was answered before the pong.
	expect(t, a, core.TypePong)
}

func TestInvalidNameIsReported(t *testing.T) {
	srv, _ := newTestServer(t)
	a := dial(t, srv)

	send(t, a, `{"type":"create","name":"   "}`)
	msg := expect(t, a, core.TypeError)
	if msg["message"] != errMsgInvalidName {
		t.Errorf("unexpected message %v", msg)
	}
}

func TestLeaveRepliesLeft(t *testing.T) {
	srv, o := newTestServer(t)
	a := dial(t, srv)

	send(t, a, `{"type":"create","name":"A"}`)
	joined := expect(t, a, core.TypeJoined)
	settings := joined["settings"].(map[string]any)
	if _, ok := settings["problems"].([]any); !ok {
		t.Errorf("default settings should carry an empty problem list, got %v", settings)
	}
	expect(t, a, core.TypeRoomState)

	send(t, a, `{"type":"leave"}`)
	expect(t, a, core.TypeLeft)
	if rooms := o.ListRooms(); len(rooms) != 0 {
		t.Errorf("room should be destroyed, got %v", rooms)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"chrome-extension://abc"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if !check(req) {
		t.Error("requests without Origin are allowed")
	}
	req.Header.Set("Origin", "chrome-extension://abc")
	if !check(req) {
		t.Error("listed origin rejected")
	}
	req.Header.Set("Origin", "https://evil.example")
	if check(req) {
		t.Error("unlisted origin accepted")
	}
}
