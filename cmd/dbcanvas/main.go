package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tordrt/dbcanvas/internal/config"
)

var (
	cfgFile   string
	storeURL  string
	slotKey   string
	logFormat string

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dbcanvas",
	Short: "Design database schemas as diagrams and generate DDL",
	Long: `dbcanvas keeps a schema diagram (tables, columns and the connections between them)
in a storage slot and edits it from the command line. The same diagram can be exported
as JSON, imported back, or rendered as CREATE TABLE statements or markdown.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.dbcanvas.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeURL, "store", config.DefaultStore, "[DBCANVAS_STORE] storage URL (mem://, file://, sqlite://, mysql://, postgres://, redis://)")
	rootCmd.PersistentFlags().StringVar(&slotKey, "key", "er-diagram", "[DBCANVAS_KEY] storage slot key")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "l", config.LogFormatText,
		fmt.Sprintf("[DBCANVAS_LOG_FORMAT] '%s' or '%s', the log line format", config.LogFormatText, config.LogFormatJSON))

	rootCmd.AddCommand(ddlCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(addTableCmd)
	rootCmd.AddCommand(addColumnCmd)
	rootCmd.AddCommand(moveColumnCmd)
	rootCmd.AddCommand(deleteTableCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load(".env.local")
	}

	v := viper.New()
	config.SetDefaults(v)
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{"store": "store", "key": "key", "log_format": "log-format"} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	if err := config.ReadFile(v, cfgFile); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	return nil
}

// parseTableList splits a comma-separated flag value
func parseTableList(s string) []string {
	if s == "" {
		return nil
	}
	list := strings.Split(s, ",")
	for i, t := range list {
		list[i] = strings.TrimSpace(t)
	}
	return list
}

func main() {
	defer func() {
		switch t := recover().(type) {
		case error:
			onError(fmt.Errorf("panic: %w", t))
		case string:
			onError(fmt.Errorf("panic: %s", t))
		default:
			if t != nil {
				onError(fmt.Errorf("panic: %+v", t))
			}
		}
	}()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		onError(err)
	}
}

func onError(err error) {
	msg := fmt.Sprintf("error: %s", err)
	_, _ = fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(msg))
	os.Exit(1)
}
