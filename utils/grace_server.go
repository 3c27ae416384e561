package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = defaultReadTimeout
	shutdownTimeout     = 30 * time.Second

	gracefulEnvKey   = "BLOGD_GRACEFUL"
	gracefulEnvValue = gracefulEnvKey + "=1"
	// inheritedListenerFD is the first descriptor after stdio in a restarted child.
	inheritedListenerFD = 3
)

// Server wraps http.Server with signal driven shutdown and zero downtime restart.
// SIGTERM and SIGINT drain connections and exit; SIGUSR2 starts a child that
// inherits the listening socket, then drains this process.
type Server struct {
	*http.Server

	listener net.Listener
	inherit  bool
	signals  chan os.Signal
	done     chan struct{}
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readTimeout,
			WriteTimeout:      writeTimeout,
		},
		inherit: os.Getenv(gracefulEnvKey) != "",
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (srv *Server) Run(ctx context.Context) error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	signal.Notify(srv.signals, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2)
	defer signal.Stop(srv.signals)
	go srv.watch(ctx)

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// Wait until Shutdown has drained open connections.
	<-srv.done
	return nil
}

func (srv *Server) listen() (net.Listener, error) {
	if srv.inherit {
		ln, err := net.FileListener(os.NewFile(inheritedListenerFD, "listener"))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *Server) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			Logger.Info("context cancelled, shutting down HTTP server")
			srv.shutdown()
			return
		case sig := <-srv.signals:
			switch sig {
			case syscall.SIGUSR2:
				pid, err := srv.forkChild()
				if err != nil {
					Logger.Error("graceful restart failed, continuing to serve", zap.Error(err))
					continue
				}
				Logger.Info("child process started, draining this one", zap.Int("pid", pid))
			default:
				Logger.Info("received signal, shutting down HTTP server", zap.String("signal", sig.String()))
			}
			srv.shutdown()
			return
		}
	}
}

func (srv *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		Logger.Info("HTTP server shutdown complete")
	}
	close(srv.done)
}

// forkChild re-executes the binary with the listener passed as fd 3.
func (srv *Server) forkChild() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not a TCP listener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}
	defer file.Close()

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvValue)

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}

// GraceServer serves handler on addr until ctx ends or the process is signalled.
func GraceServer(ctx context.Context, addr string, handler http.Handler) error {
	return NewServer(addr, handler, defaultReadTimeout, defaultWriteTimeout).Run(ctx)
}
