package mcp

import (
	"context"
	"net"
	"os"
	"sync"

	"github.com/beamkit/beam/session"
)

// ServeStdio runs the server over standard input and output. The single
// stdio client uses the service's default policy state scope.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// ServeTCP accepts connections on addr and serves each one until it closes
// or ctx is done. Every connection gets its own session from mgr, so policy
// state (caches, rate windows, queues) never bleeds across clients. A nil
// mgr shares the default scope instead.
func (s *Server) ServeTCP(ctx context.Context, addr string, mgr *session.Manager) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.serveListener(ctx, ln, mgr)
}

func (s *Server) serveListener(ctx context.Context, ln net.Listener, mgr *session.Manager) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			s.serveConn(ctx, conn, mgr)
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn, mgr *session.Manager) {
	// Unblock the read loop when ctx is cancelled; an idle client would
	// otherwise keep the connection (and listener shutdown) alive forever.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchDone:
		}
	}()

	log := s.log.WithField("remote", conn.RemoteAddr().String())

	var sess *session.Session
	if mgr != nil {
		sess = mgr.Open()
		defer mgr.Evict(sess.ID)
		log = log.WithField("session", sess.ID)
	}

	log.Debug("connection opened")
	var err error
	if sess != nil {
		err = s.ServeSession(ctx, sess.States, conn, conn)
	} else {
		err = s.Serve(ctx, conn, conn)
	}
	if err != nil && ctx.Err() == nil {
		log.WithError(err).Warn("connection closed with error")
		return
	}
	log.Debug("connection closed")
}
