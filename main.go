package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/DhavalSuthar-24/futsapp/config"
	_ "github.com/DhavalSuthar-24/futsapp/docs"
	"github.com/DhavalSuthar-24/futsapp/internal/models"
	"github.com/DhavalSuthar-24/futsapp/internal/routing"
	"github.com/DhavalSuthar-24/futsapp/internal/venue"
)

const (
	Version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

// @title Futsapp REST API
// @version 1.0
// @description Futsal match organizer: matches, player stats, venues and routes.
// @host localhost:8088
// @BasePath /api
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "futsapp",
		Short:         "Futsal match organizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Initialize()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		routeCmd(),
		venuesCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "futsapp version %s\n", Version)
			},
		},
	)
	return cmd
}

func serve(ctx context.Context) error {
	cfg := config.GetConfig()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped")
	return nil
}

func routeCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:     "route",
		Short:   "Look up a driving route between two points",
		Example: "  futsapp route --from 52.0705,4.3007 --to 52.0434,4.2546",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := models.ParseCoordinates(from)
			if err != nil {
				return err
			}
			end, err := models.ParseCoordinates(to)
			if err != nil {
				return err
			}

			cfg := config.GetConfig()
			client := routing.NewClient(cfg.Directions.BaseURL, cfg.Directions.Timeout, cfg.Directions.MaxRetries, nil)
			resp := client.Resolve(cmd.Context(), start, end)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start as lat,lng")
	cmd.Flags().StringVar(&to, "to", "", "End as lat,lng")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func venuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "venues",
		Short: "List the known venues",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := venue.LoadRegistry(config.GetConfig().Venues.File)
			if err != nil {
				return err
			}
			return printVenues(cmd, registry)
		},
	}
}

func printVenues(cmd *cobra.Command, registry *venue.Registry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS\tCOORDINATES")
	for _, v := range registry.All() {
		coords := "-"
		if v.Coordinates != nil {
			coords = fmt.Sprintf("%.4f,%.4f", v.Coordinates.Latitude, v.Coordinates.Longitude)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Address, coords)
	}
	return w.Flush()
}
