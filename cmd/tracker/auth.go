package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/Veraticus/builder-tracking/internal/cli"
	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize Google Sheets export",
		Long: `Authorize the tracker to write to Google Sheets with OAuth2.

This command will:
1. Start a local callback server
2. Print a consent URL to open in your browser
3. Save the token and store the refresh token in your config file`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 client ID (default: sheets.client_id)")
	cmd.Flags().String("client-secret", "", "OAuth2 client secret (default: sheets.client_secret)")
	cmd.Flags().String("callback", "", "callback listen address (default: localhost:8080)")
	cmd.Flags().Bool("force", false, "ignore any saved token and authorize again")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return common.NewUserError("OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret or pass --client-id and --client-secret.", nil)
	}

	tokenFile, err := sheetsTokenFile()
	if err != nil {
		return err
	}
	callback, _ := cmd.Flags().GetString("callback")
	force, _ := cmd.Flags().GetBool("force")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	cfg := sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	}

	var token *oauth2.Token
	if force {
		token, err = sheets.AuthenticateOAuth2Interactive(ctx, cfg)
	} else {
		token, err = sheets.GetOrCreateToken(ctx, cfg)
	}
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if token.RefreshToken == "" {
		fmt.Fprintln(out, cli.FormatWarning("No refresh token was returned; run again with --force."))
		return nil
	}

	viper.Set("sheets.client_id", clientID)
	viper.Set("sheets.client_secret", clientSecret)
	viper.Set("sheets.refresh_token", token.RefreshToken)

	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		fmt.Fprintln(out, cli.FormatWarning("Could not save the refresh token. Add this to your config.yaml:"))
		fmt.Fprintf(out, "sheets:\n  refresh_token: %q\n", token.RefreshToken)
		return nil
	}

	fmt.Fprintln(out, cli.FormatSuccess("Google Sheets is authorized. Run 'tracker export sheets' to publish reports."))
	return nil
}

func sheetsTokenFile() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "tracker", "sheets-token.json"), nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(home, ".config", "tracker", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}
