package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelarena/challenger-stream/internal/frame"
	red "github.com/modelarena/challenger-stream/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// producer publishes frames onto a comparison frame stream, for exercising the
// redis transport end to end without a live evaluation backend.
func main() {
	data := flag.String("d", "", "Inline JSON frame")
	file := flag.String("f", "", "Frame file, one JSON frame per line")
	stream := flag.String("stream", "comparison-frames:local", "Frame stream name")
	done := flag.Bool("done", false, "Append the stream terminator after the frames")
	flag.Parse()

	if *data == "" && *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>' | -f frames.jsonl [-done]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *file, *stream, *done); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, file, stream string, done bool) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.Connect(ctx, red.Options{
		Addr:           addr,
		Password:       os.Getenv("REDIS_PASSWORD"),
		ConnectRetries: 3,
	}, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	var frames []string
	if data != "" {
		frames = append(frames, data)
	}
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				frames = append(frames, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}
	if done {
		frames = append(frames, frame.DoneSentinel)
	}

	for _, fr := range frames {
		id, err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: stream,
			Values: map[string]any{"data": fr},
		}).Result()
		if err != nil {
			return err
		}
		log.Info().Str("stream", stream).Str("id", id).Msg("Frame published")
	}

	log.Info().Int("frames", len(frames)).Msg("Published successfully!")
	return nil
}
