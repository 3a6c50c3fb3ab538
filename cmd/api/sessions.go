package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/telecast/mediatheque/internal/logging"
	"github.com/telecast/mediatheque/internal/syncer"
)

// heartbeatProbe reports playing while heartbeats keep arriving from the
// host player within the lease window.
type heartbeatProbe struct {
	mu       sync.Mutex
	deadline time.Time
	stopped  bool
}

func newHeartbeatProbe(lease time.Duration) *heartbeatProbe {
	return &heartbeatProbe{deadline: time.Now().Add(lease)}
}

// Beat extends the playing lease.
func (p *heartbeatProbe) Beat(lease time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deadline = time.Now().Add(lease)
}

// Stop ends the lease immediately.
func (p *heartbeatProbe) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
}

func (p *heartbeatProbe) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.stopped && time.Now().Before(p.deadline)
}

type playSession struct {
	session *syncer.Session
	probe   *heartbeatProbe
	cancel  context.CancelFunc
	done    chan struct{}
	lease   time.Duration
}

// sessionRegistry tracks running playback sessions by id.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*playSession
	log      *logging.Logger
}

func newSessionRegistry(log *logging.Logger) *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*playSession),
		log:      log,
	}
}

// Start builds a session around a registry-owned heartbeat probe, runs
// its sync loop and returns the session id. The loop ends when the host
// stops sending heartbeats or Stop is called.
func (r *sessionRegistry) Start(build func(probe syncer.PlaybackProbe) *syncer.Session, cfg syncer.Config) string {
	// Three missed heartbeats end the session.
	lease := 3 * cfg.TickInterval
	if cfg.GracePeriod > lease {
		lease = cfg.GracePeriod + cfg.TickInterval
	}
	probe := newHeartbeatProbe(lease)
	session := build(probe)

	ctx, cancel := context.WithCancel(context.Background())
	ps := &playSession{
		session: session,
		probe:   probe,
		cancel:  cancel,
		done:    make(chan struct{}),
		lease:   lease,
	}

	r.mu.Lock()
	r.sessions[session.ID] = ps
	r.mu.Unlock()

	go func() {
		defer close(ps.done)
		session.Run(ctx)

		r.mu.Lock()
		delete(r.sessions, session.ID)
		r.mu.Unlock()
	}()

	return session.ID
}

// Beat extends the lease of a session, false when the session is gone.
func (r *sessionRegistry) Beat(id string) bool {
	r.mu.Lock()
	ps, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	ps.probe.Beat(ps.lease)
	return true
}

// Stop ends a session and waits for its terminal sync.
func (r *sessionRegistry) Stop(id string) bool {
	r.mu.Lock()
	ps, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	ps.probe.Stop()
	ps.cancel()
	<-ps.done
	return true
}

// Shutdown stops every running session.
func (r *sessionRegistry) Shutdown() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Stop(id)
	}
}

// Heartbeat endpoint, called by the host player about once per tick.
func (api *API) sessionHeartbeat(c *gin.Context) {
	id := c.Param("session_id")
	if !api.sessions.Beat(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id})
}

// Stop endpoint, called when the host player ends playback.
func (api *API) sessionStop(c *gin.Context) {
	id := c.Param("session_id")
	if !api.sessions.Stop(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "status": "stopped"})
}
