package cmd

import (
	"fmt"

	rrepo "yatube/internal/repository/redis"
	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var (
	userName     string
	userEmail    string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := service.NewUserService(a.db, nil, nil, nil).Register(cmd.Context(), service.SignupInput{
			Username: userName,
			Email:    userEmail,
			Password: userPassword,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", u.Username, u.ID)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user with all their posts, comments and follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// Redis 不可用时照样删库，只是会话要等过期
		var tokens *rrepo.UserRepository
		if rdb, err := a.redis(); err != nil {
			a.logger.Warn("redis unavailable, sessions are left to expire", "error", err)
		} else {
			defer rdb.Close()
			tokens = &rrepo.UserRepository{Client: rdb}
		}

		if _, err := service.NewUserService(a.db, tokens, nil, nil).Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd, userDeleteCmd)

	userCreateCmd.Flags().StringVar(&userName, "username", "", "Username (required)")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (required)")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")
}
