package cmd

import (
	"fmt"

	"yatube/internal/config"
	rrepo "yatube/internal/repository/redis"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached page",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.PageCache != config.CacheRedis {
			fmt.Fprintln(cmd.OutOrStdout(), "memory page cache lives inside the server process; restart it to clear")
			return nil
		}
		rdb, err := a.redis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		if err := (&rrepo.PageCacheRepository{Client: rdb}).Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "page cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
