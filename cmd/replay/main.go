package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/modelarena/challenger-stream/internal/session"
	"github.com/modelarena/challenger-stream/internal/snapshot"
	"github.com/modelarena/challenger-stream/internal/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// replay feeds a file of frames (one JSON object per line) through the full
// decode -> normalize -> merge -> store pipeline and prints the resulting
// snapshot. Useful for debugging captured streams offline.
func main() {
	file := flag.String("f", "", "Frame file, one JSON frame per line")
	evalID := flag.String("eval", "", "Evaluation id to print (defaults to every snapshot)")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: replay -f frames.jsonl [-eval e1]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	if err := run(*file, *evalID, &logger); err != nil {
		log.Error().Err(err).Msg("replay failed")
		os.Exit(1)
	}
}

func run(path, evalID string, logger *zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var frames []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		frames = append(frames, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	store := snapshot.NewMemoryStore()
	ctrl := session.NewController(
		&fileTransport{frames: frames},
		store,
		session.NewLogNotifier(logger),
		logger,
	)

	ctrl.Run(context.Background(), transport.Request{ConversationID: "replay"})

	if evalID != "" {
		return printSnapshot(store, evalID)
	}

	printed := false
	for _, id := range seenEvalIDs(frames) {
		if err := printSnapshot(store, id); err == nil {
			printed = true
		}
	}
	if !printed {
		return fmt.Errorf("no snapshot was produced from %d frames", len(frames))
	}
	return nil
}

func printSnapshot(store *snapshot.MemoryStore, evalID string) error {
	snap, ok := store.Read(session.Key(evalID))
	if !ok {
		return fmt.Errorf("no snapshot for %s", evalID)
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// seenEvalIDs collects eval ids from creation frames, preserving order.
func seenEvalIDs(frames []string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, raw := range frames {
		var payload struct {
			Type   string `json:"type"`
			EvalID string `json:"eval_id"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			continue
		}
		if payload.Type == "eval.created" && payload.EvalID != "" && !seen[payload.EvalID] {
			seen[payload.EvalID] = true
			ids = append(ids, payload.EvalID)
		}
	}
	return ids
}

type fileTransport struct {
	frames []string
}

func (t *fileTransport) Open(ctx context.Context, req transport.Request) (transport.Stream, error) {
	return &fileStream{frames: t.frames}, nil
}

type fileStream struct {
	frames []string
	idx    int
}

func (s *fileStream) Next(ctx context.Context) (transport.Frame, error) {
	if err := ctx.Err(); err != nil {
		return transport.Frame{}, err
	}
	if s.idx >= len(s.frames) {
		return transport.Frame{}, io.EOF
	}
	fr := transport.Frame{Data: s.frames[s.idx]}
	s.idx++
	return fr, nil
}

func (s *fileStream) Close() error { return nil }
