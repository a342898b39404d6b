package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunState is the persisted outcome of the last run, shown by /status.
type RunState struct {
	StartedAt time.Time `json:"started_at"`
	SpotLocal string    `json:"spot_local,omitempty"`
	DipTarget string    `json:"dip_target,omitempty"`
	Status    string    `json:"status,omitempty"`
	Urgent    bool      `json:"urgent"`
	Delivered int       `json:"delivered"`
	Planned   int       `json:"planned"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Text renders a short plain-text status.
func (s RunState) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Last run: %s\n", s.StartedAt.Format("2006-01-02 15:04 MST"))
	if s.SpotLocal != "" {
		fmt.Fprintf(&b, "Spot: %s per gram\n", s.SpotLocal)
		if s.DipTarget != "" {
			fmt.Fprintf(&b, "Dip target: %s per gram\n", s.DipTarget)
		}
		fmt.Fprintf(&b, "Store: %s\n", s.Status)
		urgent := "no"
		if s.Urgent {
			urgent = "yes"
		}
		fmt.Fprintf(&b, "Urgent: %s\n", urgent)
	}
	fmt.Fprintf(&b, "Delivered: %d/%d", s.Delivered, s.Planned)
	return b.String()
}

// LoadState reads the run state from a JSON file. Returns nil if the file doesn't exist.
func LoadState(filePath string) (*RunState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var state RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the run state to a JSON file.
func SaveState(filePath string, state *RunState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
