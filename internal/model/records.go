package model

// Domain records browsed and mutated through the console. Each struct
// mirrors a row of its table; the store hands them back as ordered tuples
// and the repositories in internal/repository do the mapping.

// Incident mirrors the 'cyber_incidents' table.
//
// Fields:
//  ID           – primary key identifier.
//  Date         – incident date as YYYY-MM-DD.
//  IncidentType – e.g. Malware, DDoS, SQL Injection, Phishing, Ransomware.
//  Severity     – Low, Medium, High or Critical.
//  Status       – Open, Investigating or Closed.
//  Description  – free-form analyst notes.
//  ReportedBy   – username of the reporter.
type Incident struct {
	ID           int64
	Date         string
	IncidentType string
	Severity     string
	Status       string
	Description  string
	ReportedBy   string
}

// SeverityLevel maps the severity label to a numeric level from 1 (Low)
// to 4 (Critical). Unknown labels map to 0.
func (i Incident) SeverityLevel() int {
	switch i.Severity {
	case "Low":
		return 1
	case "Medium":
		return 2
	case "High":
		return 3
	case "Critical":
		return 4
	}
	return 0
}

// Dataset mirrors the 'datasets_metadata' table.
type Dataset struct {
	ID          int64
	Name        string
	FileSizeMB  float64
	RecordCount int64
	Source      string
}

// Ticket mirrors the 'it_tickets' table.
type Ticket struct {
	ID         int64
	Subject    string
	Priority   string
	Status     string
	AssignedTo string
}
