// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/test/testengine"
	"github.com/vestradao/vdao/vdao"
)

func initSubscriptionsServer(t *testing.T, backtraceLimit uint64) (*testengine.Engine, *Subscriptions, *httptest.Server) {
	eng, err := testengine.NewDefault()
	require.NoError(t, err)

	router := mux.NewRouter()
	sub := New(eng.Engine, []string{"*"}, backtraceLimit)
	sub.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		eng.Close()
	})
	return eng, sub, ts
}

func dial(t *testing.T, ts *httptest.Server, query url.Values) *websocket.Conn {
	u := url.URL{
		Scheme:   "ws",
		Host:     strings.TrimPrefix(ts.URL, "http://"),
		Path:     "/subscriptions/event",
		RawQuery: query.Encode(),
	}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) *eventdb.Event {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev eventdb.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	return &ev
}

func TestSubscribeEvents(t *testing.T) {
	eng, _, ts := initSubscriptionsServer(t, 1000)

	conn := dial(t, ts, url.Values{
		"pos":  {"0"},
		"addr": {builtin.Vesting.Address.String()},
		"name": {"CategoryCreated"},
	})
	for i := 1; i <= 3; i++ {
		ev := readEvent(t, conn)
		assert.Equal(t, uint64(i), ev.Ref)
		assert.Equal(t, builtin.Vesting.Address, ev.Address)
	}

	live := dial(t, ts, url.Values{
		"account": {eng.Operator().String()},
		"name":    {"Staked"},
	})
	require.NoError(t, eng.FlexStake(builtin.Flexible.Name, eng.Operator(), vdao.Tokens(1000), eng.Now()))

	ev := readEvent(t, live)
	assert.Equal(t, "Staked", ev.Name)
	assert.Equal(t, builtin.Flexible.Address, ev.Address)
	assert.Equal(t, vdao.Tokens(1000), ev.Amount)
}

func TestSubscribeRejects(t *testing.T) {
	_, _, ts := initSubscriptionsServer(t, 2)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown subject", "/subscriptions/block", http.StatusNotFound},
		{"bad pos", "/subscriptions/event?pos=x", http.StatusBadRequest},
		{"pos beyond latest", "/subscriptions/event?pos=100000", http.StatusBadRequest},
		{"backtrace limit", "/subscriptions/event?pos=0", http.StatusForbidden},
		{"bad address", "/subscriptions/event?addr=0x01", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			res.Body.Close()
			assert.Equal(t, tt.status, res.StatusCode)
		})
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	_, sub, ts := initSubscriptionsServer(t, 10)
	conn := dial(t, ts, nil)
	sub.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestMessageCache(t *testing.T) {
	cache := newMessageCache(10)
	ev := &eventdb.Event{Seq: 7, Name: "Claimed", Amount: vdao.Tokens(1)}

	msg, added, err := cache.GetOrAdd(ev)
	require.NoError(t, err)
	assert.True(t, added)

	again, added, err := cache.GetOrAdd(ev)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, msg, again)
	assert.Equal(t, 1, cache.cache.Len())
}
