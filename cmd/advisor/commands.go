package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/easeaico/nintendo-advisor/internal/config"
	"github.com/easeaico/nintendo-advisor/internal/httpapi"
	"github.com/easeaico/nintendo-advisor/internal/knowledge"
	"github.com/easeaico/nintendo-advisor/internal/memory"
	"github.com/easeaico/nintendo-advisor/internal/recommend"
	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "advisor",
		Short:         "Nintendo game advisor",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newChatCommand())
	root.AddCommand(newGamesCommand())
	root.AddCommand(newMemoryCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			srv := &http.Server{
				Addr: cfg.HTTPAddr,
				Handler: httpapi.NewRouter(httpapi.Deps{
					Advisor:     app.advisor,
					Games:       app.games,
					Memory:      app.memory,
					Wiki:        app.wiki,
					WikiAnswers: app.wikiAnswers,
					DefaultUser: cfg.DefaultUserID,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				slog.Info("http server listening", "addr", cfg.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server failed: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				slog.Info("shutting down http server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func newChatCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the advisor in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = cfg.DefaultUserID
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "🎮 Nintendo advisor. Scrivi /exit per uscire.")
			var history []types.ChatMessage
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "/exit" || line == "/quit" {
					break
				}
				history = append(history, types.ChatMessage{Role: types.RoleUser, Content: line})
				resp := app.advisor.Chat(ctx, userID, history)
				history = append(history, types.ChatMessage{Role: types.RoleAssistant, Content: resp.Reply})

				fmt.Fprintln(out, resp.Reply)
				if resp.RecommendedGame != nil {
					fmt.Fprintf(out, "   ⭐ %s (%s)\n", resp.RecommendedGame.Title, resp.RecommendedGame.Platform)
				}
				if ctx.Err() != nil {
					break
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id whose memory is used")
	return cmd
}

func newGamesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Inspect the game catalogue",
	}

	var platform string
	list := &cobra.Command{
		Use:   "list",
		Short: "List catalogue games",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			games := recommend.FilterByPlatform(loadGames(cfg).All(), platform)
			for _, g := range games {
				fmt.Fprintf(cmd.OutOrStdout(), "%-45s %s\n", g.Title, g.Platform)
			}
			return nil
		},
	}
	list.Flags().StringVar(&platform, "platform", "", "only games for this platform")

	info := &cobra.Command{
		Use:   "info <query>",
		Short: "Show the catalogue record best matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			games := loadGames(cfg)
			query := strings.Join(args, " ")
			g, ok := games.Get(query)
			if !ok {
				return fmt.Errorf("no game matches %q", query)
			}
			if err := printJSON(cmd, types.CardFromRecord(g)); err != nil {
				return err
			}
			if similar := games.Similar(g, 3); len(similar) > 0 {
				titles := make([]string, len(similar))
				for i, s := range similar {
					titles[i] = s.Title
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Giochi simili: %s\n", strings.Join(titles, ", "))
			}
			return nil
		},
	}

	cmd.AddCommand(list, info, newGamesImportCommand())
	return cmd
}

func newGamesImportCommand() *cobra.Command {
	var (
		maxPerList int
		untrusted  bool
	)
	cmd := &cobra.Command{
		Use:   "import <url>...",
		Short: "Scrape game pages or game lists into the GAMES_PATH catalogue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.GamesPath == "" {
				return errors.New("GAMES_PATH must point to the catalogue file to write")
			}
			existing, err := knowledge.Load(cfg.GamesPath)
			if errors.Is(err, os.ErrNotExist) {
				// a new catalogue starts from the bundled games
				existing, err = knowledge.Load("")
			}
			if err != nil {
				return fmt.Errorf("failed to load catalogue: %w", err)
			}
			fandom := web.NewFandom(web.NewFetcher(cfg.WebTimeout, cfg.WebRateLimit), cfg.FandomHost)
			imp := &importer{
				fandom:     fandom,
				games:      existing.All(),
				maxPerList: maxPerList,
				untrusted:  untrusted,
				out:        cmd.OutOrStdout(),
			}
			for _, source := range args {
				imp.importSource(cmd.Context(), source)
			}
			if imp.added+imp.replaced == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no games imported")
				return nil
			}
			if err := knowledge.Save(cfg.GamesPath, imp.games); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d added, %d replaced, %d skipped -> %s\n",
				imp.added, imp.replaced, imp.skipped, cfg.GamesPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPerList, "max", 50, "games to import from each list page")
	cmd.Flags().BoolVar(&untrusted, "untrusted", false, "accept sources outside the trusted hosts")
	return cmd
}

// importer accumulates scraped games into an in-memory catalogue.
type importer struct {
	fandom     *web.Fandom
	games      []types.GameRecord
	maxPerList int
	untrusted  bool
	out        io.Writer

	seen                     map[string]bool
	added, replaced, skipped int
}

func (imp *importer) importSource(ctx context.Context, source string) {
	if !web.IsListPage(source) {
		imp.importPage(ctx, source)
		return
	}
	if !imp.untrusted && !web.IsTrusted(source) {
		fmt.Fprintf(imp.out, "skipped untrusted source %s\n", source)
		imp.skipped++
		return
	}
	links, err := imp.fandom.GameLinks(ctx, source, imp.maxPerList)
	if err != nil {
		slog.Warn("failed to read game list", "url", source, "error", err.Error())
		imp.skipped++
		return
	}
	for _, link := range links {
		if ctx.Err() != nil {
			return
		}
		imp.importPage(ctx, link)
	}
}

func (imp *importer) importPage(ctx context.Context, pageURL string) {
	if imp.seen == nil {
		imp.seen = make(map[string]bool)
	}
	if imp.seen[pageURL] {
		return
	}
	imp.seen[pageURL] = true

	if !imp.untrusted && !web.IsTrusted(pageURL) {
		fmt.Fprintf(imp.out, "skipped untrusted source %s\n", pageURL)
		imp.skipped++
		return
	}
	page, err := imp.fandom.FetchGame(ctx, pageURL)
	if err != nil {
		slog.Warn("failed to import game page", "url", pageURL, "error", err.Error())
		imp.skipped++
		return
	}

	record := knowledge.NewImportedRecord(page.Title, page.Platform, page.Description)
	var replaced bool
	imp.games, replaced = knowledge.Merge(imp.games, record)
	if replaced {
		imp.replaced++
	} else {
		imp.added++
	}
	fmt.Fprintf(imp.out, "imported %s (%s)\n", record.Title, record.Platform)
}

func newMemoryCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect or clear a user's memory",
	}
	cmd.PersistentFlags().StringVar(&userID, "user", "", "user id (defaults to DEFAULT_USER_ID)")

	withService := func(run func(cmd *cobra.Command, svc *memory.Service, user string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Context() == nil {
				cmd.SetContext(context.Background())
			}
			store, closeStore, err := openMemoryStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			user := userID
			if user == "" {
				user = cfg.DefaultUserID
			}
			return run(cmd, memory.NewService(store), user)
		}
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored memory",
		RunE: withService(func(cmd *cobra.Command, svc *memory.Service, user string) error {
			return printJSON(cmd, svc.Load(cmd.Context(), user))
		}),
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored memory",
		RunE: withService(func(cmd *cobra.Command, svc *memory.Service, user string) error {
			if err := svc.Clear(cmd.Context(), user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "memory of %s cleared\n", user)
			return nil
		}),
	}

	cmd.AddCommand(show, clearCmd)
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  LLM_BACKEND:    %s\n", cfg.LLMBackend)
			fmt.Fprintf(out, "  MEMORY_BACKEND: %s\n", cfg.MemoryBackend)
			fmt.Fprintf(out, "  HTTP_ADDR:      %s\n", cfg.HTTPAddr)
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(out, "\n✗ configuration invalid:\n%v\n", err)
				return err
			}
			fmt.Fprintln(out, "\n✓ configuration is valid")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nintendo-advisor v%s\n", httpapi.Version)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
