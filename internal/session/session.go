// internal/session/session.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/avocetlabs/songwatch/internal/action"
	"github.com/avocetlabs/songwatch/internal/config"
	"github.com/avocetlabs/songwatch/internal/logging"
	"github.com/avocetlabs/songwatch/internal/state"
	"github.com/avocetlabs/songwatch/internal/trigger"
	"github.com/avocetlabs/songwatch/internal/window"
)

// Predictor assigns one segment label per inference window. The
// neural network behind it is loaded and run elsewhere; the session
// only depends on this interface.
type Predictor interface {
	Predict(ctx context.Context, windows []window.Array) ([]string, error)
}

// Chunk is one spool file: a spectrogram excerpt with shape
// (bands, time bins). Producers should write to a temp name and
// rename into the spool directory so the session never reads a
// half-written file.
type Chunk struct {
	Spect [][]float64 `json:"spect"`
}

// Session runs one realtime classification session: spectrogram
// chunks land in the spool directory, are windowed and labeled, and
// every predicted label is appended to the stream followed by one
// trigger evaluation.
type Session struct {
	id        string
	cfg       *config.Global
	predictor Predictor
	engine    *trigger.Engine
	scaler    *window.Scaler
	db        *state.DB
	logger    *slog.Logger

	mu        sync.Mutex
	stream    []string
	firings   int
	processed map[string]bool
}

// New builds a session: triggers are loaded and validated against the
// registry, and the scaler is loaded if configured. No trigger fires
// until Run starts feeding the stream.
func New(cfg *config.Global, predictor Predictor, registry *action.Registry, logger *slog.Logger) (*Session, error) {
	if predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id := uuid.NewString()
	logger = logging.WithSession(logger, id)

	triggers, err := trigger.LoadTriggers(cfg.Session.TriggersPath, registry)
	if err != nil {
		return nil, fmt.Errorf("loading triggers: %w", err)
	}

	var scaler *window.Scaler
	if cfg.Session.ScalerPath != "" {
		scaler, err = window.LoadScaler(cfg.Session.ScalerPath)
		if err != nil {
			return nil, fmt.Errorf("loading scaler: %w", err)
		}
	}

	return &Session{
		id:        id,
		cfg:       cfg,
		predictor: predictor,
		engine:    trigger.NewEngine(triggers, logger),
		scaler:    scaler,
		logger:    logger,
		processed: make(map[string]bool),
	}, nil
}

// ID returns the session identifier used to key the firing history.
func (s *Session) ID() string {
	return s.id
}

// Stream returns a copy of the label stream accumulated so far.
func (s *Session) Stream() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.stream))
	copy(out, s.stream)
	return out
}

// Firings returns how many actions this session has fired.
func (s *Session) Firings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firings
}

// Run watches the spool directory and processes chunks until the
// context is cancelled. Chunks already present at startup are
// processed first, in name order.
func (s *Session) Run(ctx context.Context) error {
	if s.cfg.State.Enabled {
		db, err := state.Open(s.cfg.State.Path)
		if err != nil {
			return fmt.Errorf("opening state database: %w", err)
		}
		s.db = db
		defer func() {
			s.db.Close()
			s.db = nil
		}()

		if removed, err := db.Cleanup(s.cfg.State.RetentionDays); err != nil {
			s.logger.Warn("firing history cleanup failed", "error", err)
		} else if removed > 0 {
			s.logger.Info("cleaned up firing history", "removed", removed)
		}
	}

	hb, err := s.startHeartbeat()
	if err != nil {
		return fmt.Errorf("starting heartbeat: %w", err)
	}
	defer hb.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.cfg.Session.SpoolDir); err != nil {
		return fmt.Errorf("watching spool directory: %w", err)
	}

	s.logger.Info("session started",
		"spool_dir", s.cfg.Session.SpoolDir,
		"window_size", s.cfg.Session.WindowSize,
		"triggers", len(s.engine.Triggers()))

	if err := s.processExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopped", "stream_len", len(s.Stream()), "firings", s.Firings())
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Renames into the spool directory arrive as Create.
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			if err := s.ProcessChunk(ctx, event.Name); err != nil {
				// A bad chunk must not end the session.
				s.logger.Error("processing chunk failed", "path", event.Name, "error", err)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "error", werr)
		}
	}
}

// processExisting handles chunks that landed before the session
// started, in name order so the stream order is deterministic.
func (s *Session) processExisting(ctx context.Context) error {
	entries, err := os.ReadDir(s.cfg.Session.SpoolDir)
	if err != nil {
		return fmt.Errorf("reading spool directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(s.cfg.Session.SpoolDir, name)
		if err := s.ProcessChunk(ctx, path); err != nil {
			s.logger.Error("processing chunk failed", "path", path, "error", err)
		}
	}
	return nil
}

// ProcessChunk runs the windowing pipeline and the model over one
// spool file, then feeds each predicted label through the trigger
// engine.
func (s *Session) ProcessChunk(ctx context.Context, path string) error {
	s.mu.Lock()
	if s.processed[path] {
		s.mu.Unlock()
		return nil
	}
	s.processed[path] = true
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading chunk: %w", err)
	}

	var chunk Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return fmt.Errorf("parsing chunk: %w", err)
	}

	spect, err := window.Matrix(chunk.Spect)
	if err != nil {
		return fmt.Errorf("chunk spectrogram: %w", err)
	}

	if s.scaler != nil {
		spect, err = s.scaler.Standardize(spect)
		if err != nil {
			return fmt.Errorf("standardizing chunk: %w", err)
		}
	}

	padded, _, err := window.PadToWindow(spect, s.cfg.Session.WindowSize, s.cfg.Session.PadValue)
	if err != nil {
		return fmt.Errorf("padding chunk: %w", err)
	}
	windows, err := window.ReshapeToWindow(padded, s.cfg.Session.WindowSize)
	if err != nil {
		return fmt.Errorf("windowing chunk: %w", err)
	}

	labels, err := s.predictor.Predict(ctx, windows)
	if err != nil {
		return fmt.Errorf("predicting labels: %w", err)
	}

	for _, label := range labels {
		s.appendSymbol(label)
	}
	s.logger.Debug("chunk processed", "path", path, "windows", len(windows))
	return nil
}

// appendSymbol extends the stream by one label and runs a full trigger
// evaluation. The append and the evaluation form one atomic step under
// the session lock; nothing else observes the stream in between.
func (s *Session) appendSymbol(label string) []trigger.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stream = append(s.stream, label)
	results := s.engine.OnNewSymbol(s.stream)
	for _, res := range results {
		if !res.Fired() {
			continue
		}
		s.firings++
		if s.db == nil {
			continue
		}
		_, err := s.db.RecordFiring(state.FiringRecord{
			SessionID:   s.id,
			TriggerName: res.Trigger.String(),
			TriggerType: res.Trigger.Type(),
			MatchEnd:    res.End,
			StreamLen:   len(s.stream),
			FiredAt:     time.Now(),
		})
		if err != nil {
			s.logger.Warn("recording firing failed", "trigger", res.Trigger.String(), "error", err)
		}
	}
	return results
}
