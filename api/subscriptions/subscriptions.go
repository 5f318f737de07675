// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/vdao"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
)

type Subscriptions struct {
	backtraceLimit uint64
	eng            *engine.Engine
	upgrader       *websocket.Upgrader
	cache          *messageCache
	done           chan struct{}
	wg             sync.WaitGroup
}

// New creates the event subscription endpoint. A subscriber may replay at
// most backtraceLimit events from its starting position.
func New(eng *engine.Engine, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		eng:            eng,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		cache: newMessageCache(uint32(backtraceLimit)),
		done:  make(chan struct{}),
	}
}

// latestSeq returns the sequence number of the newest event, 0 when there is none.
func (s *Subscriptions) latestSeq(ctx context.Context) (uint64, error) {
	events, err := s.eng.Events(ctx, &eventdb.EventFilter{
		Order:   eventdb.DESC,
		Options: &eventdb.Options{Limit: 1},
	})
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}
	return events[0].Seq, nil
}

func parseAddress(req *http.Request, name string) (*vdao.Address, error) {
	v := req.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	addr, err := vdao.ParseAddress(v)
	if err != nil {
		return nil, restutil.BadRequest(errors.WithMessage(err, name))
	}
	return &addr, nil
}

func (s *Subscriptions) handleEventReader(req *http.Request) (*eventReader, error) {
	latest, err := s.latestSeq(req.Context())
	if err != nil {
		return nil, err
	}
	pos := latest
	if v := req.URL.Query().Get("pos"); v != "" {
		pos, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "pos"))
		}
		if pos > latest {
			return nil, restutil.BadRequest(fmt.Errorf("pos: beyond the latest event %d", latest))
		}
		if latest-pos > s.backtraceLimit {
			return nil, restutil.Forbidden(errors.New("pos: backtrace limit exceeded"))
		}
	}

	filter := &EventFilter{Name: req.URL.Query().Get("name")}
	if filter.Address, err = parseAddress(req, "addr"); err != nil {
		return nil, err
	}
	if filter.Account, err = parseAddress(req, "account"); err != nil {
		return nil, err
	}
	return newEventReader(s.eng, pos, filter), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader *eventReader
		err    error
	)
	switch mux.Vars(req)["subject"] {
	case "event":
		if reader, err = s.handleEventReader(req); err != nil {
			return err
		}
	default:
		return restutil.HTTPError(errors.New("not found"), http.StatusNotFound)
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	metricActiveWebsocket().Add(1)
	defer metricActiveWebsocket().Add(-1)

	var closeMsg []byte
	defer func() {
		if closeMsg == nil {
			closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		}
		if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil {
			logger.Debug("write close message", "err", err)
		}
		if err := conn.Close(); err != nil {
			logger.Debug("close websocket", "err", err)
		}
	}()

	if err := s.pipe(req.Context(), conn, reader); err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	}
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader) error {
	closed := make(chan struct{})
	// start read loop to handle close and pong frames
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// take the waiter before reading so no commit in between goes unnoticed
		waiter := s.eng.NewWaiter()
		events, ok, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, ev := range events {
			msg, _, err := s.cache.GetOrAdd(ev)
			if err != nil {
				return err
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return nil
			}
			metricMessagesSent().AddWithLabel(1, map[string]string{"subject": "event"})
		}
		if ok {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case <-waiter.C():
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// Close ends every subscription and waits for the handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubject))
}
