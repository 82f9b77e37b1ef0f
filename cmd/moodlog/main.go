package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pbaille/moodlog/internal/analysis"
	"github.com/pbaille/moodlog/internal/assets"
	"github.com/pbaille/moodlog/internal/classifier"
	"github.com/pbaille/moodlog/internal/config"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/journal"
	"github.com/pbaille/moodlog/internal/knowledge"
	"github.com/pbaille/moodlog/internal/logger"
	"github.com/pbaille/moodlog/internal/store"
)

var (
	dbPath  string
	dataDir string

	cfg *config.Config
	log = logger.Nop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "moodlog",
		Short:         "Emotion journal with automatic emotion detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default <data-dir>/moodlog.db)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.moodlog)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(emotionsCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
	}

	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if dataDir != "" {
		c.SetDataDir(dataDir)
	}
	if dbPath != "" {
		c.SetDBPath(dbPath)
	}
	cfg = c

	l, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = l
	return nil
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.DBPath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.DBPath())
}

// session is the in-memory journal seeded from the database
type session struct {
	db      *store.Store
	entries *journal.Store
}

func openSession() (*session, error) {
	db, err := getStore()
	if err != nil {
		return nil, err
	}
	all, err := db.AllEntries()
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("session opened", "db", cfg.DBPath(), "entries", len(all))
	return &session{db: db, entries: journal.NewStore(all)}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Install the starter lexicon and lookup tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := assets.Install(assets.Targets{
				Lexicon:         cfg.Classifier.ModelPath,
				Recommendations: cfg.Knowledge.RecommendationsPath,
				EmotionInfo:     cfg.Knowledge.EmotionInfoPath,
			}, force)
			if err != nil {
				return err
			}

			for _, p := range res.Written {
				fmt.Printf("  + %s\n", p)
			}
			for _, p := range res.Skipped {
				fmt.Printf("  = %s (exists, use --force to replace)\n", p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func addCmd() *cobra.Command {
	var (
		at         string
		triggers   []string
		sensations []string
		thoughts   []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "add [situation]",
		Short: "Record a situation and detect its emotion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if at == "" {
				at = time.Now().Format(domain.TimestampLayout)
			}
			raw := domain.RawEntry{
				Timestamp:          at,
				Text:               strings.Join(args, " "),
				Triggers:           splitAll(triggers),
				PhysicalSensations: splitAll(sensations),
				Thoughts:           splitAll(thoughts),
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			recs := knowledge.LoadRecommendations(cfg.Knowledge.RecommendationsPath, log)
			load, err := classifier.LoaderFor(cfg.Classifier, recs.Labels())
			if err != nil {
				return err
			}

			loadCtx, cancel := context.WithTimeout(ctx, cfg.Classifier.Timeout)
			defer cancel()
			adapter := classifier.NewAdapter(loadCtx, load, log)
			if adapter.Degraded() && !asJSON {
				fmt.Fprintf(os.Stderr, "(emotion model unavailable: %v)\n", adapter.Err())
			}

			enricher := journal.NewEnricher(adapter, recs, s.entries, journal.EnricherOptions{
				LabelPrefix: cfg.Classifier.LabelPrefix,
				Log:         log,
				Persist:     s.db.SaveEntry,
			})

			entry, result, err := enricher.Enrich(ctx, raw)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(os.Stdout, struct {
					Entry    domain.Entry             `json:"entry"`
					Analysis domain.ImmediateAnalysis `json:"analysis"`
				}{entry, result})
			}

			fmt.Printf("Added entry: %s\n\n", shortID(entry.ID))
			renderAnalysis(os.Stdout, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "entry time as \"YYYY-MM-DD HH:MM\" (default now)")
	cmd.Flags().StringArrayVarP(&triggers, "trigger", "t", nil, "trigger (repeatable or comma-separated)")
	cmd.Flags().StringArrayVarP(&sensations, "sensation", "s", nil, "physical sensation (repeatable or comma-separated)")
	cmd.Flags().StringArrayVarP(&thoughts, "thought", "T", nil, "automatic thought (repeatable or comma-separated)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func splitAll(values []string) []string {
	out := []string{}
	for _, v := range values {
		out = append(out, journal.SplitTags(v)...)
	}
	return out
}

func listCmd() *cobra.Command {
	var (
		limit    int
		emotion  string
		from, to string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List diary entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := analysis.Filter{Emotion: emotion}
			var err error
			if f.From, err = analysis.ParseDate(from); err != nil {
				return err
			}
			if f.To, err = analysis.ParseDate(to); err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var entries []domain.Entry
			if emotion == "" && from == "" && to == "" {
				entries, err = s.ListEntries(limit, 0)
			} else {
				var all []domain.Entry
				if all, err = s.AllEntries(); err == nil {
					entries = limitEntries(f.Apply(all), limit)
				}
			}
			if err != nil {
				return err
			}

			return printEntries(entries, asJSON, "No entries yet. Use 'moodlog add' to create one.")
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVarP(&emotion, "emotion", "e", "", "only entries with this emotion")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func showCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show entry details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entry, err := s.GetEntry(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(os.Stdout, entry)
			}
			renderEntry(os.Stdout, entry)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func searchCmd() *cobra.Command {
	var (
		scope  string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search entries by text or thoughts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := analysis.ParseScope(scope)
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			all, err := s.AllEntries()
			if err != nil {
				return err
			}

			f := analysis.Filter{Query: strings.Join(args, " "), Scope: sc}
			return printEntries(limitEntries(f.Apply(all), limit), asJSON, "No matching entries found.")
		},
	}

	cmd.Flags().StringVar(&scope, "in", "all", "where to search: text, thoughts or all")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func limitEntries(entries []domain.Entry, limit int) []domain.Entry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func printEntries(entries []domain.Entry, asJSON bool, empty string) error {
	if asJSON {
		return writeJSON(os.Stdout, entries)
	}
	if len(entries) == 0 {
		fmt.Println(empty)
		return nil
	}
	for _, e := range entries {
		renderEntryLine(os.Stdout, e)
	}
	return nil
}

func reportCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Long-term analysis over all entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := analysis.LoadSettings(cfg.AnalysisPath)
			if err != nil {
				return err
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			report := analysis.NewEngine(settings).Aggregate(s.entries.Snapshot())
			if asJSON {
				return writeJSON(os.Stdout, report)
			}
			if report == nil {
				fmt.Println("No entries yet. Use 'moodlog add' to create one.")
				return nil
			}
			renderReport(os.Stdout, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Chart series: emotions by day, top triggers, thoughts and intensity",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			stats := analysis.ComputeStats(s.entries.Snapshot())
			if asJSON {
				return writeJSON(os.Stdout, stats)
			}
			if stats == nil {
				fmt.Println("No entries yet. Use 'moodlog add' to create one.")
				return nil
			}
			renderStats(os.Stdout, stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func emotionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "emotions [label]",
		Short: "Learn about emotions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guide := knowledge.LoadEmotionGuide(cfg.Knowledge.EmotionInfoPath, log)
			if err := guide.Err(); err != nil {
				return fmt.Errorf("emotion guide: %w (run 'moodlog init' to install one)", err)
			}

			if len(args) == 0 {
				labels := guide.Labels()
				if asJSON {
					return writeJSON(os.Stdout, labels)
				}
				for _, l := range labels {
					fmt.Println(l)
				}
				return nil
			}

			info, ok := guide.Lookup(args[0])
			if !ok {
				return fmt.Errorf("no information about %q", args[0])
			}
			if asJSON {
				return writeJSON(os.Stdout, info)
			}
			renderEmotionInfo(os.Stdout, args[0], info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import entries from a journal JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := store.ReadEntriesFile(args[0])
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			added, err := s.ImportEntries(entries)
			if err != nil {
				return err
			}
			log.Info("entries imported", "file", args[0], "read", len(entries), "added", added)
			fmt.Printf("Imported %d of %d entries\n", added, len(entries))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all entries to a journal JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.AllEntries()
			if err != nil {
				return err
			}
			if err := store.WriteEntriesFile(args[0], entries); err != nil {
				return err
			}
			fmt.Printf("Exported %d entries to %s\n", len(entries), args[0])
			return nil
		},
	}
}
