package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"olist_back_end/internal/config"
	"olist_back_end/internal/dataset"
	"olist_back_end/internal/loader"
	"olist_back_end/internal/logging"
)

var (
	envFile string
	variant string
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "olist-loader",
	Short: "Recharge complètement les stores à partir des CSV Olist",
	Long: `Supprime puis recrée le schéma PostgreSQL (customers, orders, order_items)
et, pour la variante hybride, les collections MongoDB (products, reviews, user_profiles).

Les CSV sont lus dans DATA_DIR, ou dans un bucket MinIO si MINIO_ENDPOINT est défini.`,
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var publishCmd = &cobra.Command{
	Use:          "publish",
	Short:        "Envoie les CSV de --data-dir dans le bucket MinIO configuré",
	SilenceUsage: true,
	RunE:         publish,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Fichier .env à charger")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Répertoire des CSV (défaut : $DATA_DIR)")
	rootCmd.Flags().StringVar(&variant, "variant", "", "Variante : hybrid ou relational (défaut : $VARIANT)")

	rootCmd.AddCommand(publishCmd)
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
	if dataDir != "" {
		cfg.Source.Dir = dataDir
	}

	log := logging.New(cfg.Log, "loader")

	src, err := dataset.NewSource(cfg.Source)
	if err != nil {
		log.Error().Err(err).Msg("❌ Source CSV invalide")
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = loader.New(cfg, src, log).Run(ctx)
	return err
}

func publish(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.Source.Dir = dataDir
	}

	log := logging.New(cfg.Log, "loader")
	if !cfg.Source.UsesMinIO() {
		err := errors.New("MINIO_ENDPOINT non défini")
		log.Error().Err(err).Msg("❌ Publication impossible")
		return err
	}

	src, err := dataset.NewMinIOSource(cfg.Source)
	if err != nil {
		return err
	}
	if err := src.Publish(cmd.Context(), cfg.Source.Dir, log); err != nil {
		log.Error().Err(err).Str("dir", cfg.Source.Dir).Msg("❌ Publication des CSV échouée")
		return err
	}
	log.Info().Str("target", src.String()).Msg("✅ Extrait Olist publié")
	return nil
}
