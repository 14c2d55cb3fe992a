package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Nrich-sunny/moviecrawler/bootstrap"
	"github.com/Nrich-sunny/moviecrawler/cmd/chart"
	"github.com/Nrich-sunny/moviecrawler/cmd/crawl"
	"github.com/Nrich-sunny/moviecrawler/cmd/stats"
	"github.com/Nrich-sunny/moviecrawler/config"
	"github.com/Nrich-sunny/moviecrawler/version"
	"github.com/spf13/cobra"
)

var ConfigPath string
var Force bool
var Yes bool
var Top int
var ListMovies bool

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "crawl douban movie top250 and save to database.",
	Long:  "crawl douban movie top250 and save to database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
			return crawl.Run(ctx, app, Force)
		})
	},
}

var chartCmd = &cobra.Command{
	Use:       "chart [nationality|genre|director|all]...",
	Short:     "render charts to png files.",
	Long:      "render nationality (bar), genre (pie) and director (bar) charts to png files.",
	ValidArgs: append([]string{"all"}, chart.Kinds...),
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
			return chart.Run(ctx, app, cmd.OutOrStdout(), args)
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "print aggregate tables.",
	Long:  "print nationality, genre and director tables.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
			return stats.Run(ctx, app, cmd.OutOrStdout(), Top, ListMovies)
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "delete all movies from database.",
	Long:  "delete all movies from database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !Yes && !confirm(cmd, "确定要清空数据库吗？(y/n): ") {
			return nil
		}
		return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
			store, err := app.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "数据库已清空")
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer()
	},
}

func Execute() error {
	var rootCmd = &cobra.Command{
		Use:           "douban",
		Short:         "douban movie top250 crawler and charts.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", config.DefaultPath, "config file")
	rootCmd.AddCommand(crawlCmd, chartCmd, statsCmd, clearCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	crawlCmd.Flags().BoolVarP(&Force, "force", "f", false, "crawl again even if database has data")
	clearCmd.Flags().BoolVarP(&Yes, "yes", "y", false, "do not ask for confirmation")
	statsCmd.Flags().IntVar(&Top, "top", 20, "rows per table, 0 for all")
	statsCmd.Flags().BoolVar(&ListMovies, "movies", false, "also list every movie")
}

func withApp(ctx context.Context, fn func(context.Context, *bootstrap.App) error) error {
	app, err := bootstrap.New(ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
