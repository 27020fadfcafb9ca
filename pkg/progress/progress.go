// Package progress persists per-target score history between scans so
// remediation work shows up as a trend.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stackaudit/pciscan/pkg/core"
)

type Data struct {
	Target       string          `json:"target"`
	Provider     string          `json:"provider"`
	LastScan     time.Time       `json:"last_scan"`
	FirstScan    time.Time       `json:"first_scan"`
	ScanCount    int             `json:"scan_count"`
	ScoreHistory []ScorePoint    `json:"score_history"`
	FixedIssues  map[string]bool `json:"fixed_issues"`
}

type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

func dataPath(target string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %v", err)
	}
	return filepath.Join(homeDir, ".pciscan", target+".json"), nil
}

// Save records a completed scan for the target, appending to its score
// history and marking passing controls as fixed.
func Save(result core.AssessmentResult) error {
	path, err := dataPath(result.Target)
	if err != nil {
		return err
	}

	os.MkdirAll(filepath.Dir(path), 0755)

	var progress Data
	if data, err := os.ReadFile(path); err == nil {
		json.Unmarshal(data, &progress)
	} else {
		progress = Data{
			Target:       result.Target,
			Provider:     result.Provider,
			FirstScan:    time.Now(),
			FixedIssues:  make(map[string]bool),
			ScoreHistory: []ScorePoint{},
		}
	}
	if progress.FixedIssues == nil {
		progress.FixedIssues = make(map[string]bool)
	}

	progress.LastScan = time.Now()
	progress.ScanCount++
	progress.ScoreHistory = append(progress.ScoreHistory, ScorePoint{
		Date:  time.Now(),
		Score: result.Score,
	})

	for _, control := range result.Controls {
		if control.Status == "PASS" {
			progress.FixedIssues[control.ID] = true
		}
	}

	data, _ := json.MarshalIndent(progress, "", "  ")
	return os.WriteFile(path, data, 0644)
}

// Load reads the saved history for a target.
func Load(target string) (*Data, error) {
	path, err := dataPath(target)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no previous scans found for %s", target)
	}

	var progress Data
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to parse progress data: %v", err)
	}
	return &progress, nil
}

// Show prints the score trend for a target.
func Show(progress *Data) {
	fmt.Println("\nYour Assessment Progress")
	fmt.Println("===================================")
	fmt.Printf("Target: %s\n", progress.Target)
	fmt.Printf("First scan: %s\n", progress.FirstScan.Format("Jan 2, 2006"))
	fmt.Printf("Total scans: %d\n", progress.ScanCount)
	fmt.Printf("Issues fixed: %d\n", len(progress.FixedIssues))

	if len(progress.ScoreHistory) > 1 {
		first := progress.ScoreHistory[0].Score
		last := progress.ScoreHistory[len(progress.ScoreHistory)-1].Score
		improvement := last - first

		if improvement > 0 {
			fmt.Printf("Score improvement: +%.1f%% (%.1f%% -> %.1f%%)\n", improvement, first, last)
		}

		fmt.Println("\nScore Trend:")
		startIdx := 0
		if len(progress.ScoreHistory) > 5 {
			startIdx = len(progress.ScoreHistory) - 5
		}
		for _, point := range progress.ScoreHistory[startIdx:] {
			bars := int(point.Score / 5)
			barString := strings.Repeat("#", bars)
			fmt.Printf("%s: %s %.1f%%\n",
				point.Date.Format("Jan 02"),
				barString,
				point.Score)
		}
	}
}

// Compare prints the delta between the last two scans.
func Compare(progress *Data) {
	if len(progress.ScoreHistory) < 2 {
		fmt.Println("Need at least 2 scans to compare.")
		return
	}

	prev := progress.ScoreHistory[len(progress.ScoreHistory)-2]
	curr := progress.ScoreHistory[len(progress.ScoreHistory)-1]

	fmt.Println("\nAssessment Progress Report")
	fmt.Println("============================")
	fmt.Printf("Previous: %.1f%% (%s)\n", prev.Score, prev.Date.Format("Jan 2, 3:04 PM"))
	fmt.Printf("Current:  %.1f%% (%s)\n", curr.Score, curr.Date.Format("Jan 2, 3:04 PM"))

	improvement := curr.Score - prev.Score
	if improvement > 0 {
		fmt.Printf("\nImproved by %.1f%%!\n", improvement)
	} else if improvement < 0 {
		fmt.Printf("\nDeclined by %.1f%%\n", -improvement)
	} else {
		fmt.Println("\nNo change")
	}

	fmt.Println("\nTo see what changed, run:")
	fmt.Println("  pciscan scan -verbose")
}
