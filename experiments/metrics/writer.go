package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// MatchConfig describes one seat pairing of an experiment.
type MatchConfig struct {
	ID                  int
	HumanAggressiveness float64
	BotAggressiveness   float64
	ThinkDelay          time.Duration
}

type GameRecord struct {
	ID     int
	Config int // MatchConfig.ID
	GameMetric
	EventSummary
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> and writes records there.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteMatchConfigs(configs []MatchConfig) error {
	header := []string{"id", "human_aggressiveness", "bot_aggressiveness", "think_delay"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			formatFloat(config.HumanAggressiveness),
			formatFloat(config.BotAggressiveness),
			config.ThinkDelay.String(),
		})
	}
	if err := w.write("match_configs.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write match configs: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{
		"id", "config", "seed", "winner", "ticks", "decisions",
		"human_nodes", "bot_nodes", "human_throughput", "bot_throughput",
		"captures", "hostile_captures", "failed_captures", "nodes_destroyed",
		"start_time", "end_time", "duration",
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Config),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(int(record.Winner)),
			strconv.Itoa(record.GameMetric.Ticks),
			strconv.Itoa(record.Decisions),
			strconv.Itoa(at(record.NodesOwned, 0)),
			strconv.Itoa(at(record.NodesOwned, 1)),
			formatFloat(at(record.Throughput, 0)),
			formatFloat(at(record.Throughput, 1)),
			strconv.Itoa(record.Captures),
			strconv.Itoa(record.HostileCaptures),
			strconv.Itoa(record.FailedCaptures),
			strconv.Itoa(record.NodesDestroyed),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	if err := w.write("game_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	return nil
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func at[T any](values []T, i int) T {
	var zero T
	if i < 0 || i >= len(values) {
		return zero
	}
	return values[i]
}
