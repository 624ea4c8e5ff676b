package agent

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/feignbridge/pkg/agentclient"
)

// --- Helpers ---

func startAgent(t *testing.T) (*Receiver, *agentclient.Client) {
	t.Helper()
	r := New(nil)
	ts := httptest.NewServer(r.Handler())
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return r, agentclient.New(agentclient.Static(u.Hostname(), port))
}

// --- Tests ---

func TestReceiver_Ping(t *testing.T) {
	r, c := startAgent(t)
	ctx := context.Background()

	assert.Equal(t, agentclient.ReplyPong, c.Ping(ctx))
	r.SetReady(false)
	assert.Equal(t, "starting", c.Ping(ctx))
}

func TestReceiver_UpdateIsIdempotent(t *testing.T) {
	r, c := startAgent(t)
	ctx := context.Background()

	assert.Equal(t, agentclient.ReplyOK, c.Update(ctx, "a#b()", "{\n  \"x\": 1\n}"))
	assert.Equal(t, agentclient.ReplyOK, c.Update(ctx, "a#b()", "{\n  \"x\": 1\n}"))

	text, ok := r.Mock("a#b()")
	require.True(t, ok)
	assert.Equal(t, `{ "x": 1 }`, text)
	assert.Equal(t, []string{"a#b()"}, r.Signatures())
}

func TestReceiver_DeleteIsIdempotent(t *testing.T) {
	r, c := startAgent(t)
	ctx := context.Background()

	c.Update(ctx, "a#b()", "{}")
	assert.Equal(t, agentclient.ReplyDeleted, c.Clear(ctx, "a#b()"))
	assert.Equal(t, agentclient.ReplyDeleted, c.Clear(ctx, "a#b()"))
	_, ok := r.Mock("a#b()")
	assert.False(t, ok)
}

func TestReceiver_RejectsBadPayload(t *testing.T) {
	r := New(nil)
	h := r.Handler()

	for _, body := range []string{"not json", `{"json":"{}"}`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), agentclient.ErrorPrefix))
	}
}

func TestReceiver_ListMocks(t *testing.T) {
	r, c := startAgent(t)
	c.Update(context.Background(), "a#b()", "[]")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mocks", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.JSONEq(t, `{"a#b()":"[]"}`, string(body))
}
