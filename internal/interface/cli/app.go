// Package cli 命令行入口: cobra命令树 + 交互式菜单
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	appcatalog "github.com/xiebiao/bookcatalog/internal/application/catalog"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// Version 构建时通过 -ldflags "-X .../cli.Version=x.y.z" 注入
var Version = "dev"

// App 命令行应用
// 设计说明:
// 1. 依赖全部由wire注入,App本身不创建存储连接
// 2. 除version外的命令执行前先Load目录
// 3. metrics.enabled时在命令执行期间暴露/metrics
type App struct {
	cfg      *config.Config
	catalog  *appcatalog.Catalog
	log      *slog.Logger
	gatherer prometheus.Gatherer
}

// NewApp 创建命令行应用
func NewApp(cfg *config.Config, cat *appcatalog.Catalog, log *slog.Logger, gatherer prometheus.Gatherer) *App {
	return &App{
		cfg:      cfg,
		catalog:  cat,
		log:      log,
		gatherer: gatherer,
	}
}

// Execute 解析args并执行对应命令
func (a *App) Execute(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	var stopMetrics func()
	defer func() {
		if stopMetrics != nil {
			stopMetrics()
		}
	}()

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Book and author catalog manager",
		Long:          "Manage books (by ISBN) and authors (by store-assigned ID) linked by authorship.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if a.cfg.Metrics.Enabled {
				addr, stop, err := a.startMetricsServer(a.cfg.Metrics.Addr)
				if err != nil {
					return err
				}
				stopMetrics = stop
				a.log.Info("指标服务已启动", slog.String("addr", addr))
			}
			if _, err := a.catalog.Load(cmd.Context()); err != nil {
				return fmt.Errorf("加载目录失败: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return NewMenu(a.catalog, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}

	root.AddCommand(
		a.menuCommand(),
		a.booksCommand(),
		a.authorsCommand(),
		versionCommand(),
	)

	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

func (a *App) menuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return NewMenu(a.catalog, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
}

func (a *App) booksCommand() *cobra.Command {
	var isbn, title string
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Print all books with their authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if title != "" {
				PrintBooks(cmd.OutOrStdout(), a.catalog.SearchBooks(title))
				return nil
			}
			if isbn == "" {
				PrintBooks(cmd.OutOrStdout(), a.catalog.Books())
				return nil
			}
			b, ok := a.catalog.FindBookByISBN(isbn)
			if !ok {
				return fmt.Errorf("book %q not found", isbn)
			}
			fmt.Fprintln(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().StringVar(&isbn, "isbn", "", "print only the book with this ISBN")
	cmd.Flags().StringVar(&title, "title", "", "fuzzy search by title")
	cmd.MarkFlagsMutuallyExclusive("isbn", "title")
	return cmd
}

func (a *App) authorsCommand() *cobra.Command {
	var id int
	cmd := &cobra.Command{
		Use:   "authors",
		Short: "Print all authors with their books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("id") {
				PrintAuthors(cmd.OutOrStdout(), a.catalog.Authors())
				return nil
			}
			author, ok := a.catalog.FindAuthorByID(id)
			if !ok {
				return fmt.Errorf("author %d not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), author)
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "print only the author with this ID")
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s\n", Version)
		},
	}
}

// startMetricsServer 在addr上暴露/metrics,返回实际监听地址和停止函数
// 先Listen再Serve,端口冲突能同步报错
func (a *App) startMetricsServer(addr string) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("指标服务监听失败: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.gatherer))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("指标服务异常退出", slog.Any("error", err))
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.log.Error("关闭指标服务失败", slog.Any("error", err))
		}
	}
	return ln.Addr().String(), stop, nil
}
