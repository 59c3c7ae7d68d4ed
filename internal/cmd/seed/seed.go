// Package seed parses seed command flags and fills a local tracker
// database with demo data.
package seed

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/focusbuddy/internal/platform/cmd"
	"github.com/louisbranch/focusbuddy/internal/platform/id"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/service"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/storage"
	trackersqlite "github.com/louisbranch/focusbuddy/internal/services/tracker/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath      string `env:"FOCUSBUDDY_SEED_DB_PATH" envDefault:"data/tracker.db"`
	UserID      string `env:"FOCUSBUDDY_SEED_USER_ID" envDefault:"demo-user"`
	DisplayName string `env:"FOCUSBUDDY_SEED_DISPLAY_NAME" envDefault:"Demo User"`
	Days        int    `env:"FOCUSBUDDY_SEED_DAYS" envDefault:"7"`
}

// ParseConfig parses environment and flags into a Config. Environment
// values and their tag defaults seed the fields; explicit flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.DBPath, "db-path", "", "The tracker SQLite database path")
	fs.StringVar(&cfg.UserID, "user", "", "Demo user ID to seed")
	fs.StringVar(&cfg.DisplayName, "name", "", "Demo user display name")
	fs.IntVar(&cfg.Days, "days", 0, "Number of past days to fill with sessions")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the tracker database with a demo user, completed sessions over
// the past days, distractions, and tasks.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if cfg.Days <= 0 {
		cfg.Days = 7
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tracker storage dir: %w", err)
		}
	}
	store, err := trackersqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open tracker sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close tracker sqlite store: %v", closeErr)
		}
	}()

	now := time.Now().UTC()
	if err := store.PutUser(ctx, storage.User{
		ID:          cfg.UserID,
		DisplayName: cfg.DisplayName,
		CreatedAt:   now.AddDate(0, 0, -cfg.Days),
	}); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	clock := &seedClock{}
	streaks := service.NewStreakService(store)
	sessions := service.NewSessionService(store, store, store, streaks, clock.Now, nil)

	for i := cfg.Days - 1; i >= 0; i-- {
		day := domain.DayOf(now.AddDate(0, 0, -i))
		if err := seedDay(ctx, sessions, clock, cfg.UserID, day); err != nil {
			return fmt.Errorf("seed day %s: %w", domain.DayLabel(day), err)
		}
		if err := seedTask(ctx, store, cfg.UserID, day); err != nil {
			return fmt.Errorf("seed task %s: %w", domain.DayLabel(day), err)
		}
	}

	log.Printf("seeded %d days of sessions for %s in %s", cfg.Days, cfg.UserID, cfg.DBPath)
	return nil
}

// seedDay runs one focus block with a pause and a distraction, followed by
// a short break, all on the given calendar day.
func seedDay(ctx context.Context, sessions *service.SessionService, clock *seedClock, userID string, day time.Time) error {
	clock.now = day.Add(9 * time.Hour)
	focus, err := sessions.Start(ctx, domain.StartSessionInput{
		UserID:                 userID,
		Task:                   "Deep work block",
		Type:                   domain.SessionTypeFocus,
		PlannedDurationMinutes: 50,
	})
	if err != nil {
		return fmt.Errorf("start focus session: %w", err)
	}
	clock.advance(20 * time.Minute)
	if _, err := sessions.AddDistraction(ctx, userID, focus.ID, "Checked phone"); err != nil {
		return fmt.Errorf("add distraction: %w", err)
	}
	clock.advance(5 * time.Minute)
	if _, err := sessions.Pause(ctx, userID, focus.ID); err != nil {
		return fmt.Errorf("pause focus session: %w", err)
	}
	clock.advance(5 * time.Minute)
	if _, err := sessions.Resume(ctx, userID, focus.ID); err != nil {
		return fmt.Errorf("resume focus session: %w", err)
	}
	clock.advance(25 * time.Minute)
	if _, err := sessions.End(ctx, userID, focus.ID, domain.StateCompleted, "Good momentum"); err != nil {
		return fmt.Errorf("end focus session: %w", err)
	}

	clock.advance(5 * time.Minute)
	brk, err := sessions.Start(ctx, domain.StartSessionInput{
		UserID:                 userID,
		Task:                   "Coffee break",
		Type:                   domain.SessionTypeBreak,
		PlannedDurationMinutes: 10,
	})
	if err != nil {
		return fmt.Errorf("start break session: %w", err)
	}
	clock.advance(10 * time.Minute)
	if _, err := sessions.End(ctx, userID, brk.ID, domain.StateCompleted, ""); err != nil {
		return fmt.Errorf("end break session: %w", err)
	}
	return nil
}

func seedTask(ctx context.Context, store *trackersqlite.Store, userID string, day time.Time) error {
	taskID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("generate task id: %w", err)
	}
	return store.PutTask(ctx, storage.Task{
		ID:        taskID,
		UserID:    userID,
		Title:     "Finish " + domain.DayLabel(day) + " review",
		Status:    storage.TaskStatusCompleted,
		CreatedAt: day.Add(8 * time.Hour),
		UpdatedAt: day.Add(17 * time.Hour),
	})
}

// seedClock replays historical timestamps through the service clock hooks.
type seedClock struct {
	now time.Time
}

func (c *seedClock) Now() time.Time {
	return c.now
}

func (c *seedClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}
