package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlpractice-service/internal/domain"
)

func dialTutor(t *testing.T, s *testServer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ai/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readFrames(t *testing.T, conn *websocket.Conn) []wsFrame {
	t.Helper()
	var frames []wsFrame
	for {
		var f wsFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		if f.Done || f.Error != "" {
			return frames
		}
	}
}

func TestTutorSocketStreams(t *testing.T) {
	s := newTestServer(t, &stubLLM{chunks: []string{"Use ", "a JOIN."}})
	conn := dialTutor(t, s)

	require.NoError(t, conn.WriteJSON(wsRequest{Id: "q1", Question: "How do I join?"}))
	frames := readFrames(t, conn)
	assert.Equal(t, []wsFrame{
		{Id: "q1", Content: "Use "},
		{Id: "q1", Content: "a JOIN."},
		{Id: "q1", Done: true},
	}, frames)

	require.NoError(t, conn.WriteJSON(wsRequest{Question: "again"}))
	frames = readFrames(t, conn)
	require.Len(t, frames, 3)
	assert.NotEmpty(t, frames[0].Id)
	assert.Equal(t, frames[0].Id, frames[2].Id)
}

func TestTutorSocketErrors(t *testing.T) {
	s := newTestServer(t, &stubLLM{err: domain.NewError(domain.ErrLLMUpstream, "Gemini API request failed")})
	conn := dialTutor(t, s)

	require.NoError(t, conn.WriteJSON(wsRequest{Id: "empty"}))
	assert.Equal(t, []wsFrame{{Id: "empty", Error: "Question is required"}}, readFrames(t, conn))

	require.NoError(t, conn.WriteJSON(wsRequest{Id: "upstream", Question: "q"}))
	assert.Equal(t, []wsFrame{{Id: "upstream", Error: "Gemini API request failed"}}, readFrames(t, conn))

	// the per-address AI budget is two questions a minute in tests
	require.NoError(t, conn.WriteJSON(wsRequest{Id: "limited", Question: "q"}))
	frames := readFrames(t, conn)
	require.Len(t, frames, 1)
	assert.Contains(t, frames[0].Error, "Too many AI requests")
}
