package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"olist_back_end/internal/config"
	"olist_back_end/internal/handlers"
	"olist_back_end/internal/logging"
	"olist_back_end/internal/middleware"
	"olist_back_end/internal/repository"
	"olist_back_end/internal/routes"
)

var (
	envFile string
	variant string
	addr    string
)

var rootCmd = &cobra.Command{
	Use:          "olist-server",
	Short:        "API de lecture du jeu de données Olist (hybride ou PostgreSQL seul)",
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Fichier .env à charger")
	rootCmd.Flags().StringVar(&variant, "variant", "", "Variante : hybrid ou relational (défaut : $VARIANT)")
	rootCmd.Flags().StringVar(&addr, "addr", "", "Adresse d'écoute (défaut : $HTTP_ADDR)")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if variant != "" {
		v, err := config.ParseVariant(variant)
		if err != nil {
			return err
		}
		cfg = cfg.WithVariant(v)
	}
	if addr != "" {
		cfg.HTTPAddr = addr
	}

	log := logging.New(cfg.Log, "api")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))

	var docs handlers.DocumentReader
	if cfg.Variant.UsesDocuments() {
		docs = repository.NewDocuments(cfg.Mongo)
	}
	h := handlers.New(cfg.Variant, repository.NewRelational(cfg.Postgres), docs, log)
	routes.RegisterRoutes(r, h, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("variant", string(cfg.Variant)).Msg("🚀 Serveur Olist lancé")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("❌ Arrêt du serveur")
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("🛑 Arrêt demandé, fin des requêtes en cours...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ Arrêt forcé du serveur")
		return err
	}
	log.Info().Msg("✅ Serveur arrêté")
	return nil
}
