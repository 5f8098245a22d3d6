package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"voice-notes/configs"
	"voice-notes/repository"
	service "voice-notes/services"
	"voice-notes/utils"

	"github.com/spf13/cobra"
)

var userEmail string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts directly in the database",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := configs.Load(v)
		if err != nil {
			return err
		}
		if userEmail == "" {
			return errors.New("--email is required")
		}

		in := bufio.NewReader(cmd.InOrStdin())
		password, err := readPassword(cmd, in, "Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword(cmd, in, "Repeat password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		mc, err := configs.ConnectMongo(ctx, cfg.MongoURI, log)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() { _ = mc.Disconnect(context.Background()) }()
		db := mc.Database(cfg.MongoDatabase)
		if err := configs.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}

		issuer, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return err
		}
		auth := service.NewAuthService(repository.NewUserRepository(db.Collection(configs.UsersCollection)), issuer, log)
		user, err := auth.Register(ctx, userEmail, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.ID.Hex())
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVarP(&userEmail, "email", "e", "", "account email")
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}
