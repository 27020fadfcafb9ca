package report

const htmlReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>PCI DSS 4.0 Assessment Report - {{.Target}}</title>
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
            max-width: 1200px;
            margin: 0 auto;
            background-color: #fff;
            padding: 30px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
        h1 {
            color: #2c3e50;
            text-align: center;
            margin-bottom: 30px;
            border-bottom: 2px solid #3498db;
            padding-bottom: 10px;
        }
        h2 {
            color: #2c3e50;
            margin-top: 30px;
            border-bottom: 1px solid #ddd;
            padding-bottom: 10px;
        }
        h3 {
            color: #3498db;
            margin-top: 20px;
        }
        h4 {
            color: #2c3e50;
            margin: 10px 0;
        }
        .report-date {
            text-align: right;
            color: #7f8c8d;
            font-style: italic;
            margin-bottom: 20px;
        }
        .compliant {
            color: green;
            font-weight: bold;
        }
        .non-compliant {
            color: red;
            font-weight: bold;
        }
        .partial {
            color: orange;
            font-weight: bold;
        }
        .executive-summary {
            background-color: #f0f7fd;
            border-left: 4px solid #3498db;
            padding: 20px;
            margin: 20px 0;
        }
        .finding-req {
            background-color: #e74c3c;
            color: white;
            padding: 2px 8px;
            border-radius: 3px;
            font-size: 12px;
            margin-right: 10px;
            text-transform: uppercase;
        }
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
        .stat-label {
            font-size: 14px;
            color: #7f8c8d;
        }
        .stat-value {
            font-size: 24px;
            font-weight: bold;
            margin-top: 10px;
        }
        .stat-value.passed {
            color: #2ecc71;
        }
        .stat-value.failed {
            color: #e74c3c;
        }
        .stat-value.warning {
            color: #f39c12;
        }
        .overall-status {
            font-size: 18px;
            margin-top: 10px;
            padding: 5px 10px;
            border-radius: 5px;
            display: inline-block;
        }
        .overall-status.compliant {
            background-color: rgba(46, 204, 113, 0.1);
        }
        .overall-status.non-compliant {
            background-color: rgba(231, 76, 60, 0.1);
        }
        .overall-status.partial {
            background-color: rgba(243, 156, 18, 0.1);
        }
        .requirements-grid {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(350px, 1fr));
            gap: 20px;
            margin-top: 20px;
        }
        .req-card {
            border: 1px solid #ddd;
            border-radius: 5px;
            overflow: hidden;
            box-shadow: 0 2px 5px rgba(0,0,0,0.1);
            background-color: #fff;
        }
        .req-card-header {
            background-color: #f8f9fa;
            padding: 15px;
            border-bottom: 1px solid #ddd;
            display: flex;
            align-items: center;
        }
        .req-number {
            background-color: #3498db;
            color: white;
            font-weight: bold;
            padding: 5px 10px;
            border-radius: 5px;
            margin-right: 15px;
            font-size: 14px;
        }
        .req-title {
            font-weight: bold;
            color: #2c3e50;
        }
        .req-card-body {
            padding: 15px;
        }
        .req-stats {
            display: flex;
            justify-content: space-between;
            margin-bottom: 15px;
        }
        .req-stat {
            text-align: center;
        }
        .expandable-section, .expandable-finding, .critical-finding {
            margin-bottom: 10px;
        }
        .section-header, .finding-header, .critical-finding-header {
            padding: 10px;
            background-color: #f8f9fa;
            border: 1px solid #ddd;
            border-radius: 4px;
            cursor: pointer;
            user-select: none;
            display: flex;
            align-items: center;
        }
        .section-header:hover, .finding-header:hover, .critical-finding-header:hover {
            background-color: #e9ecef;
        }
        .section-content, .finding-content, .critical-finding-content {
            display: none;
            padding: 15px;
            border: 1px solid #ddd;
            border-top: none;
            border-radius: 0 0 4px 4px;
        }
        .toggle-icon {
            display: inline-block;
            width: 20px;
            height: 20px;
            text-align: center;
            line-height: 20px;
            margin-right: 10px;
            font-weight: bold;
        }
        .finding-details, .finding-recommendation {
            margin-bottom: 15px;
        }
        .finding-details h4, .finding-recommendation h4 {
            margin-bottom: 5px;
            color: #3498db;
        }
        .console-link {
            font-size: 13px;
        }
        .critical-finding-header {
            background-color: #fdeded;
        }
        .critical-finding-header:hover {
            background-color: #fad7d7;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>PCI DSS 4.0 Assessment Report</h1>

        <div class="report-date">
            {{.Provider}} / {{.Target}} &mdash; Generated on: {{.GeneratedAt}}
        </div>

        <div class="executive-summary">
            <h2>Executive Summary</h2>
            <p>This report summarizes the PCI DSS 4.0 assessment across all twelve requirement areas. Click on a finding to expand details and remediation steps.</p>

            <div class="summary-stats">
                <div class="stat-box">
                    <div class="stat-label">Compliance Status</div>
                    <div class="stat-value {{.OverallStatusClass}}">{{printf "%.1f" .Score}}%</div>
                    <div class="overall-status {{.OverallStatusClass}}">{{.OverallStatus}}</div>
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

            {{if .CriticalFindings}}
            <h3>Critical Findings</h3>
            {{range .CriticalFindings}}
            <div class="critical-finding">
                <div class="critical-finding-header" onclick="toggleElement('critical-{{.Requirement}}-{{.Index}}', event)">
                    <span class="toggle-icon">+</span>
                    <span class="finding-req">Req {{.Requirement}}</span> {{.Title}}
                </div>
                <div class="critical-finding-content" id="critical-{{.Requirement}}-{{.Index}}">
                    <div class="finding-details">
                        <h4>Issue Details:</h4>
                        <div>{{.Details}}</div>
                    </div>
                    <div class="finding-recommendation">
                        <h4>Recommendation:</h4>
                        <div>{{.Recommendation}}</div>
                    </div>
                    {{if .ConsoleURL}}<div class="console-link"><a href="{{.ConsoleURL}}">Open in console</a></div>{{end}}
                </div>
            </div>
            {{end}}
            {{end}}
        </div>

        <h2>Requirements Summary</h2>
        <div class="requirements-grid">
            {{range .Cards}}
            <div class="req-card">
                <div class="req-card-header">
                    <div class="req-number">REQ {{.Number}}</div>
                    <div class="req-title">{{.Title}}</div>
                </div>
                <div class="req-card-body">
                    <div class="req-stats">
                        <div class="req-stat">
                            <div class="stat-label">Status</div>
                            <div class="stat-value {{.StatusClass}}">{{.Status}}</div>
                        </div>
                        <div class="req-stat">
                            <div class="stat-label">Compliance</div>
                            <div class="stat-value">{{printf "%.1f" .CompliancePct}}%</div>
                        </div>
                        <div class="req-stat">
                            <div class="stat-label">Passed/Failed</div>
                            <div class="stat-value">{{.Passed}}/{{.Failed}}</div>
                        </div>
                    </div>
                    <div class="expandable-section">
                        <div class="section-header" onclick="toggleElement('req-{{.Number}}', event)">
                            <span class="toggle-icon">+</span> View Findings ({{len .Findings}})
                        </div>
                        <div class="section-content" id="req-{{.Number}}">
                            {{if .Findings}}
                            {{range .Findings}}
                            <div class="expandable-finding">
                                <div class="finding-header" onclick="toggleElement('finding-{{.Requirement}}-{{.Index}}', event)">
                                    <span class="toggle-icon">+</span> {{.Title}}
                                </div>
                                <div class="finding-content" id="finding-{{.Requirement}}-{{.Index}}">
                                    <div class="finding-details">
                                        <h4>Issue Details:</h4>
                                        <div>{{.Details}}</div>
                                    </div>
                                    <div class="finding-recommendation">
                                        <h4>Recommendation:</h4>
                                        <div>{{.Recommendation}}</div>
                                    </div>
                                    {{if .ConsoleURL}}<div class="console-link"><a href="{{.ConsoleURL}}">Open in console</a></div>{{end}}
                                </div>
                            </div>
                            {{end}}
                            {{else}}
                            <p>No failed checks for this requirement.</p>
                            {{end}}
                        </div>
                    </div>
                </div>
            </div>
            {{end}}
        </div>

        {{if .Recommendations}}
        <h2>Recommendations</h2>
        <p>Based on the assessment results, the following actions are recommended:</p>
        <ol>
            {{range .Recommendations}}
            <li>{{.}}</li>
            {{end}}
        </ol>
        {{end}}
    </div>

    <script>
        function toggleElement(id, event) {
            const content = document.getElementById(id);
            const header = content.previousElementSibling;
            const icon = header.querySelector('.toggle-icon');

            if (content.style.display === 'block') {
                content.style.display = 'none';
                icon.textContent = '+';
            } else {
                content.style.display = 'block';
                icon.textContent = '-';
            }

            if (event) {
                event.stopPropagation();
            }
        }
    </script>
</body>
</html>
`
