package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/stackaudit/pciscan/pkg/core"
)

type summaryTarget struct {
	Provider      string
	Target        string
	Score         float64
	Status        string
	StatusClass   string
	TotalChecks   int
	Passed        int
	Failed        int
	Warnings      int
	CriticalCount int
	ScannedAt     string
}

type summaryData struct {
	GeneratedAt   string
	Targets       []summaryTarget
	OverallScore  float64
	OverallStatus string
	OverallClass  string
	TotalChecks   int
	Passed        int
	Failed        int
	CriticalCount int
}

// LoadResults reads every saved assessment artifact (*.json) from dir.
// Files that don't parse as assessment results are skipped.
func LoadResults(dir string) ([]core.AssessmentResult, error) {
	pattern := filepath.Join(dir, "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %v", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no assessment results found in %s", dir)
	}

	var results []core.AssessmentResult
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		var result core.AssessmentResult
		if err := json.Unmarshal(data, &result); err != nil {
			continue
		}
		if result.Target == "" || len(result.Controls) == 0 {
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no valid assessment results found in %s", dir)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Target < results[j].Target
	})
	return results, nil
}

// GenerateSummary writes a dashboard aggregating assessment results
// across all scanned scope targets.
func GenerateSummary(results []core.AssessmentResult, output string, verbose bool) error {
	data := summaryData{
		GeneratedAt: time.Now().Format("January 2, 2006"),
	}

	totalPassed, totalFailed := 0, 0
	for _, result := range results {
		critical := countCritical(result.Controls)

		target := summaryTarget{
			Provider:      result.Provider,
			Target:        result.Target,
			Score:         result.Score,
			TotalChecks:   result.TotalControls,
			Passed:        result.PassedControls,
			Failed:        result.FailedControls,
			Warnings:      result.WarningControls,
			CriticalCount: critical,
			ScannedAt:     result.Timestamp.Format("2006-01-02 15:04"),
		}
		target.Status, target.StatusClass = statusLabel(result.Score)
		data.Targets = append(data.Targets, target)

		data.TotalChecks += result.TotalControls
		data.CriticalCount += critical
		totalPassed += result.PassedControls
		totalFailed += result.FailedControls
	}

	data.Passed = totalPassed
	data.Failed = totalFailed
	if automated := totalPassed + totalFailed; automated > 0 {
		data.OverallScore = float64(totalPassed) / float64(automated) * 100
	}
	data.OverallStatus, data.OverallClass = statusLabel(data.OverallScore)

	tmpl, err := template.New("summary").Parse(summaryTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse summary template: %v", err)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %v", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render summary: %v", err)
	}

	if verbose {
		fmt.Printf("Summary dashboard written to %s (%d targets)\n", output, len(data.Targets))
	}
	return nil
}

const summaryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>PCI DSS 4.0 Scope Summary</title>
    <style>
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            line-height: 1.6;
            color: #333;
            margin: 0;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            max-width: 1100px;
            margin: 0 auto;
            background-color: #fff;
            padding: 30px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
        h1 {
            color: #2c3e50;
            text-align: center;
            border-bottom: 2px solid #3498db;
            padding-bottom: 10px;
        }
        .report-date {
            text-align: right;
            color: #7f8c8d;
            font-style: italic;
        }
        .compliant { color: green; font-weight: bold; }
        .non-compliant { color: red; font-weight: bold; }
        .partial { color: orange; font-weight: bold; }
        .summary-stats {
            display: flex;
            flex-wrap: wrap;
            justify-content: space-between;
            margin: 20px 0;
        }
        .stat-box {
            background: white;
            border-radius: 5px;
            padding: 15px;
            width: 22%;
            margin-bottom: 15px;
            box-shadow: 0 2px 5px rgba(0,0,0,0.1);
            text-align: center;
        }
        .stat-label { font-size: 14px; color: #7f8c8d; }
        .stat-value { font-size: 24px; font-weight: bold; margin-top: 10px; }
        .stat-value.passed { color: #2ecc71; }
        .stat-value.failed { color: #e74c3c; }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-top: 20px;
        }
        th, td {
            padding: 12px;
            border-bottom: 1px solid #ddd;
            text-align: left;
        }
        th {
            background-color: #f8f9fa;
            color: #2c3e50;
        }
        tr:hover { background-color: #f0f7fd; }
        .provider-badge {
            background-color: #3498db;
            color: white;
            padding: 2px 8px;
            border-radius: 3px;
            font-size: 12px;
            text-transform: uppercase;
        }
        .critical-count {
            color: #e74c3c;
            font-weight: bold;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>PCI DSS 4.0 Scope Summary</h1>
        <div class="report-date">Generated on: {{.GeneratedAt}}</div>

        <div class="summary-stats">
            <div class="stat-box">
                <div class="stat-label">Overall Status</div>
                <div class="stat-value {{.OverallClass}}">{{printf "%.1f" .OverallScore}}%</div>
                <div class="{{.OverallClass}}">{{.OverallStatus}}</div>
            </div>
            <div class="stat-box">
                <div class="stat-label">Total Checks</div>
                <div class="stat-value">{{.TotalChecks}}</div>
            </div>
            <div class="stat-box">
                <div class="stat-label">Passed</div>
                <div class="stat-value passed">{{.Passed}}</div>
            </div>
            <div class="stat-box">
                <div class="stat-label">Failed</div>
                <div class="stat-value failed">{{.Failed}}</div>
            </div>
        </div>

        <h2>Scope Targets ({{len .Targets}})</h2>
        <table>
            <tr>
                <th>Provider</th>
                <th>Target</th>
                <th>Score</th>
                <th>Status</th>
                <th>Passed</th>
                <th>Failed</th>
                <th>Critical</th>
                <th>Last Scan</th>
            </tr>
            {{range .Targets}}
            <tr>
                <td><span class="provider-badge">{{.Provider}}</span></td>
                <td>{{.Target}}</td>
                <td>{{printf "%.1f" .Score}}%</td>
                <td class="{{.StatusClass}}">{{.Status}}</td>
                <td>{{.Passed}}</td>
                <td>{{.Failed}}</td>
                <td>{{if .CriticalCount}}<span class="critical-count">{{.CriticalCount}}</span>{{else}}0{{end}}</td>
                <td>{{.ScannedAt}}</td>
            </tr>
            {{end}}
        </table>
    </div>
</body>
</html>
`
