package handler

import (
	"fmt"

	"github.com/mkarov/intelconsole/internal/model"
)

// Domain expert system prompts, one per record domain.
const (
	cyberExpertPrompt = "You are a cybersecurity expert."
	dataExpertPrompt  = "You are a data science expert."
	opsExpertPrompt   = "You are an IT operations expert."
)

func incidentAnalysisPrompt(inc model.Incident) string {
	return fmt.Sprintf(`Analyze this cybersecurity incident:

Incident ID: %d
Type: %s
Severity: %s (Level %d/4)
Status: %s
Description: %s

Provide a comprehensive analysis including:
1. Root cause analysis
2. Immediate mitigation steps
3. Long-term security recommendations
4. Potential business impact assessment
5. Similar threat patterns to watch for`,
		inc.ID, inc.IncidentType, inc.Severity, inc.SeverityLevel(), inc.Status, inc.Description)
}

func datasetAnalysisPrompt(d model.Dataset) string {
	return fmt.Sprintf(`Analyze this dataset's metadata:

Dataset ID: %d
Name: %s
File size: %.1f MB
Record count: %d
Source: %s

Provide a comprehensive analysis including:
1. Likely data quality concerns at this size and record count
2. Suitable storage and processing approaches
3. Suggested validation checks before use
4. Governance or retention considerations`,
		d.ID, d.Name, d.FileSizeMB, d.RecordCount, d.Source)
}

func ticketAnalysisPrompt(t model.Ticket) string {
	return fmt.Sprintf(`Analyze this IT support ticket:

Ticket ID: %d
Subject: %s
Priority: %s
Status: %s
Assigned to: %s

Provide a comprehensive analysis including:
1. Likely root cause
2. Recommended troubleshooting steps
3. Whether the priority looks appropriate
4. Escalation guidance`,
		t.ID, t.Subject, t.Priority, t.Status, t.AssignedTo)
}
