package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/query"
	"github.com/aidanlsb/nagmodel/internal/ui"
	"github.com/aidanlsb/nagmodel/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [type [field[__op]=value...]]",
	Short: "Reload definitions whenever the store file changes",
	Long: `Watch the snapshot (or database) file and rebuild the object model after
every change. Each reload prints object counts per type. With a type and
predicates, the matching objects are counted instead.

Reload errors, such as a snapshot that no longer parses, are reported
and the previous state is kept.

Examples:
  nagmodel watch
  nagmodel watch host hostgroups__has_field=web`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 100*time.Millisecond, "Wait this long after the last write before reloading")
	rootCmd.AddCommand(watchCmd)
}

// reloadSummary is printed after every reload.
type reloadSummary struct {
	Time   time.Time      `json:"time"`
	Counts map[string]int `json:"counts"`
	Filter []string       `json:"filter,omitempty"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	var (
		filterType model.ObjectType
		preds      []query.Predicate
	)
	if len(args) > 0 {
		t, err := parseType(args[0])
		if err != nil || t == "" {
			return err
		}
		filterType = t
		preds, err = query.ParseAll(args[1:], nil)
		if err != nil {
			return handleModelError(err)
		}
	}

	_, path, err := storeLocation()
	if err != nil {
		return handleError(ErrStoreError, err, "Pass --snapshot or --db, or set snapshot/database in config.toml")
	}

	reload := func(string) error {
		summary, err := loadSummary(filterType, preds)
		if err != nil {
			return err
		}
		if isJSONOutput() {
			outputSuccess(summary, &Meta{Source: path})
			return nil
		}
		fmt.Println(formatSummary(summary))
		return nil
	}

	w, err := watcher.New(watcher.Config{
		Paths:         []string{path},
		DebounceDelay: watchDebounce,
		Log:           getLogger(),
		OnChange:      reload,
		OnReload: func(path string, err error) {
			if err == nil {
				return
			}
			if isJSONOutput() {
				outputSuccessWithWarnings(nil, []Warning{{Code: WarnReloadFailed, Message: err.Error(), Ref: path}}, nil)
				return
			}
			fmt.Fprintln(os.Stderr, ui.Warningf("reload of %s failed: %v", path, err))
		},
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if err := reload(path); err != nil {
		return handleModelError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !isJSONOutput() {
		fmt.Printf("Watching %s\n", path)
		fmt.Println(ui.Hint("Press Ctrl+C to stop"))
	}

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return handleError(ErrInternal, err, "")
	}
	return nil
}

// loadSummary opens a fresh session and counts objects.
func loadSummary(filterType model.ObjectType, preds []query.Predicate) (*reloadSummary, error) {
	s, err := openSession()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	summary := &reloadSummary{Time: time.Now(), Counts: make(map[string]int)}
	if filterType != "" {
		objs, err := s.registry.Objects(filterType).Filter(preds...)
		if err != nil {
			return nil, err
		}
		summary.Counts[string(filterType)] = len(objs)
		for _, p := range preds {
			summary.Filter = append(summary.Filter, p.String())
		}
		return summary, nil
	}
	for _, t := range model.AllTypes {
		objs, err := s.registry.Objects(t).All()
		if err != nil {
			return nil, err
		}
		summary.Counts[string(t)] = len(objs)
	}
	return summary, nil
}

func formatSummary(s *reloadSummary) string {
	line := ui.Hint(s.Time.Format("15:04:05")) + " "
	first := true
	for _, t := range model.AllTypes {
		n, ok := s.Counts[string(t)]
		if !ok {
			continue
		}
		if !first {
			line += ", "
		}
		first = false
		line += fmt.Sprintf("%d %s", n, t)
	}
	if len(s.Filter) > 0 {
		line += " " + ui.Hint(fmt.Sprint(s.Filter))
	}
	return line
}
