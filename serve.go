package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/snakegrid/api"
	"github.com/wricardo/snakegrid/game/config"
	"github.com/wricardo/snakegrid/transport/mcp"
)

const (
	cleanupInterval = time.Hour
	sessionMaxAge   = 24 * time.Hour
	diskSyncEvery   = 5 * time.Second
)

func serveCommand(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, websocket and /mcp endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: settings.Host},
			&cli.IntFlag{Name: "port", Value: settings.Port},
			&cli.BoolFlag{Name: "ngrok", Value: settings.NgrokEnabled, Usage: "expose the server through an ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Value: settings.NgrokAuthtoken, Usage: "ngrok auth token"},
			&cli.StringFlag{Name: "ngrok-domain", Value: settings.NgrokDomain, Usage: "custom ngrok domain"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings.Host = cmd.String("host")
			settings.Port = cmd.Int("port")
			settings.NgrokEnabled = cmd.Bool("ngrok")
			settings.NgrokAuthtoken = cmd.String("ngrok-auth")
			settings.NgrokDomain = cmd.String("ngrok-domain")
			return runServer(ctx, *settings)
		},
	}
}

// newRouter mounts the API at the root and the MCP proxy at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request", http.StatusBadRequest)
			return
		}

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("failed to write mcp response")
		}
	})
	return router
}

func runServer(ctx context.Context, settings config.Settings) error {
	svc, err := newServices(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	goRun := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	apiServer := api.NewServer(svc.game)
	goRun(func() { apiServer.Hub().Run(ctx) })
	goRun(func() { svc.sessions.RunCleanup(ctx, cleanupInterval, sessionMaxAge) })
	goRun(func() { svc.syncWithDisk(ctx, diskSyncEvery) })

	addr := settings.Addr()
	router := newRouter(apiServer, mcp.NewClient("http://"+addr))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goRun(func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	})

	if settings.NgrokEnabled {
		goRun(func() { runTunnel(ctx, settings, router) })
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown")
	}
	wg.Wait()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
		log.Info().Msg("server stopped")
		return nil
	}
}

// runTunnel serves handler through ngrok until ctx is done
func runTunnel(ctx context.Context, settings config.Settings, handler http.Handler) {
	if settings.NgrokAuthtoken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var endpoint ngrokConfig.Tunnel
	if settings.NgrokDomain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.NgrokDomain))
	} else {
		endpoint = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(settings.NgrokAuthtoken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	url := tun.URL()
	log.Info().Str("url", url).Msg("ngrok tunnel established")
	log.Info().Msgf("MCP endpoint (ngrok): %s/mcp", url)

	tunnelServer := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		tunnelServer.Close()
	}()
	if err := tunnelServer.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn().Err(err).Msg("ngrok server stopped")
	}
}

func mcpCommand(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server backed by the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: settings.APIURL, Usage: "API to reuse when it is reachable"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings.APIURL = cmd.String("api-url")

			baseURL := settings.APIURL
			if !apiReachable(ctx, baseURL) {
				internalURL, stop, err := startInternalAPI(ctx, *settings)
				if err != nil {
					return err
				}
				defer stop()
				baseURL = internalURL
			}

			log.Info().Str("api", baseURL).Msg("mcp stdio server ready")
			return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
		},
	}
}

// apiReachable reports whether a healthy API answers at baseURL
func apiReachable(ctx context.Context, baseURL string) bool {
	if baseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the API on a random loopback port
func startInternalAPI(ctx context.Context, settings config.Settings) (string, func(), error) {
	svc, err := newServices(ctx, settings)
	if err != nil {
		return "", nil, err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		svc.Close()
		return "", nil, fmt.Errorf("listen: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	apiServer := api.NewServer(svc.game)
	go apiServer.Hub().Run(ctx)

	httpServer := &http.Server{Handler: apiServer}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("internal http server")
		}
	}()

	baseURL := "http://" + listener.Addr().String()
	log.Info().Str("api", baseURL).Msg("started internal http server")

	stop := func() {
		cancel()
		httpServer.Close()
		svc.Close()
	}
	return baseURL, stop, nil
}
