package discord

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"go.uber.org/zap"
)

// maxEmbedDescription stays below Discord's 4096 character description limit.
const maxEmbedDescription = 4000

// SetupCloseHandler creates a handler that will catch SIGINT and SIGTERM signals
// and gracefully close the application
func SetupCloseHandler(logger *zap.Logger, cleanupFunc func() error) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-c
		logger.Info("shutting down", zap.String("signal", sig.String()))
		if err := cleanupFunc(); err != nil {
			logger.Error("error during cleanup", zap.Error(err))
			os.Exit(1)
		}
		os.Exit(0)
	}()
}

// ChunkString splits s into parts of at most chunkSize bytes, breaking at
// line boundaries where possible.
func ChunkString(s string, chunkSize int) []string {
	if chunkSize <= 0 || len(s) <= chunkSize {
		return []string{s}
	}

	var chunks []string
	current := ""

	for _, line := range strings.Split(s, "\n") {
		if len(current)+len(line)+1 <= chunkSize {
			if current == "" {
				current = line
			} else {
				current += "\n" + line
			}
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}

		// A single line longer than a chunk is split on a rune boundary.
		for len(line) > chunkSize {
			cut := chunkSize
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = chunkSize
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		current = line
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
