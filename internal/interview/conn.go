package interview

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"alfredoptarigan/hiremind/internal/logger"
)

// Conn is the persistent client connection. *websocket.Conn from
// gofiber/contrib/websocket satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

var errNoConnection = errors.New("no live connection for session")

// liveConn serializes writes to one connection. Each write must finish
// within writeTimeout so a client that stops reading cannot hold the session.
type liveConn struct {
	conn         Conn
	writeTimeout time.Duration
	mu           sync.Mutex
}

func (c *liveConn) write(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.conn.WriteJSON(v)
}

// connRegistry tracks the live connection of each session token.
type connRegistry struct {
	mu           sync.RWMutex
	conns        map[string]*liveConn
	writeTimeout time.Duration
}

func newConnRegistry(writeTimeout time.Duration) *connRegistry {
	return &connRegistry{
		conns:        make(map[string]*liveConn),
		writeTimeout: writeTimeout,
	}
}

// register makes conn the live connection for token, closing any previous one.
func (r *connRegistry) register(token string, conn Conn) *liveConn {
	lc := &liveConn{conn: conn, writeTimeout: r.writeTimeout}

	r.mu.Lock()
	existing := r.conns[token]
	r.conns[token] = lc
	r.mu.Unlock()

	if existing != nil && existing.conn != conn {
		_ = existing.conn.Close()
		logger.Logger.WithField("token", token).Info("🔁 Interview connection replaced")
	}
	return lc
}

// unregister removes lc if it is still the live connection for token.
func (r *connRegistry) unregister(token string, lc *liveConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[token]; ok && current == lc {
		delete(r.conns, token)
	}
}

// remove drops and closes whatever connection token has.
func (r *connRegistry) remove(token string) {
	r.mu.Lock()
	lc, ok := r.conns[token]
	delete(r.conns, token)
	r.mu.Unlock()

	if ok {
		_ = lc.conn.Close()
	}
}

func (r *connRegistry) get(token string) *liveConn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[token]
}

// send delivers ev to token's connection. A failed write drops the mapping.
func (r *connRegistry) send(token string, ev Event) error {
	lc := r.get(token)
	if lc == nil {
		return errNoConnection
	}
	if err := lc.write(ev); err != nil {
		r.unregister(token, lc)
		logger.Logger.WithFields(logrus.Fields{
			"token": token,
			"event": ev.EventType(),
		}).Debugf("Dropping interview connection after failed send: %v", err)
		return err
	}
	return nil
}
