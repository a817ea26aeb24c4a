package swank

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/loamlang/swank/pkg/config"
	"github.com/loamlang/swank/pkg/logger"
)

// Version is the runtime implementation version reported to clients.
const Version = "0.3.0"

// protocolVersion is the protocol revision reported in connection-info.
const protocolVersion = "2.28"

// Server owns the listener lifecycle: bind, optionally publish the
// bound port through the port file, serve exactly one connection to
// completion, release the listener.
type Server struct {
	cfg *config.Config
	log *logger.Logger
}

// NewServer creates a server from cfg.
func NewServer(cfg *config.Config, log *logger.Logger) *Server {
	return &Server{cfg: cfg, log: log}
}

// ListenAndServe blocks until the served connection closes.
func (srv *Server) ListenAndServe() error {
	addr := fmt.Sprintf("127.0.0.1:%d", srv.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	if srv.cfg.PortFile != "" {
		data := []byte(strconv.Itoa(port) + "\n")
		if err := os.WriteFile(srv.cfg.PortFile, data, 0644); err != nil {
			return fmt.Errorf("write port file: %w", err)
		}
	}
	srv.log.Info("listening on port %d", port)

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	return NewSession(conn, srv.log).Serve()
}
