package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes how the raiding formations of a battle decide.
type AgentConfig struct {
	ID             int
	Mode           string // "status", a pick policy name or "mcts"
	Playout        string
	MaxSearchStep  int
	MaxExpandLevel int
}

type BattleRecord struct {
	ID    int
	Agent int // AgentConfig.ID
	Seed  uint64
	BattleMetric
}

type DecisionRecord struct {
	Battle int // BattleRecord.ID
	DecisionMetric
}

type Writer struct {
	baseDir string
}

func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
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

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", file, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", file, err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "mode", "playout", "max_search_step", "max_expand_level"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Mode,
			config.Playout,
			strconv.Itoa(config.MaxSearchStep),
			strconv.Itoa(config.MaxExpandLevel),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteBattleRecords(records []BattleRecord) error {
	header := []string{"id", "agent", "seed", "winner", "start_time", "end_time", "duration", "ticks", "moves", "structures", "structures_destroyed"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent),
			strconv.FormatUint(record.Seed, 10),
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.Ticks),
			strconv.Itoa(record.Moves),
			strconv.Itoa(record.Structures),
			strconv.Itoa(record.StructuresDestroyed),
		})
	}
	return w.write("battle_records.csv", header, rows)
}

func (w *Writer) WriteDecisionRecords(records []DecisionRecord) error {
	header := []string{"battle", "tick", "formation", "status", "policy", "target", "fallback", "duration", "episodes", "expansions", "tree_size", "is_tree_reset"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Battle),
			strconv.Itoa(record.Tick),
			record.Formation,
			record.Status,
			record.Policy,
			strconv.Itoa(record.Target),
			strconv.FormatBool(record.Fallback),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.TreeSize),
			strconv.FormatBool(record.IsTreeReset),
		})
	}
	return w.write("decision_records.csv", header, rows)
}
