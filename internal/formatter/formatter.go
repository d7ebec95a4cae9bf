// package formatter provides functions to export migration reports to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/amosley/joinboard/internal/etl"
)

// ReportToJSON converts a migration report to JSON, optionally indented.
func ReportToJSON(report *etl.Report, pretty bool) ([]byte, error) {
	var data []byte
	var err error

	if pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	return data, nil
}

// FailuresToCSV converts the report's failure list to CSV with columns: Entity, LegacyID, Reason
func FailuresToCSV(report *etl.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Entity", "LegacyID", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, failure := range report.Failures {
		record := []string{failure.Entity, failure.LegacyID, failure.Reason}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a migration report to Markdown.
func ReportToMarkdown(report *etl.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Migration Report\n\n")
	buf.WriteString(fmt.Sprintf("**Final state**: %s\n", report.FinalState))
	buf.WriteString(fmt.Sprintf("**Duration**: %s\n\n", report.Duration().Round(1e6)))

	buf.WriteString("| Entity | Attempted | Succeeded | Failed |\n")
	buf.WriteString("| --- | --- | --- | --- |\n")
	for _, row := range [][2]any{{"Users", report.Users}, {"Contacts", report.Contacts}, {"Tasks", report.Tasks}} {
		count := row[1].(etl.EntityCount)
		buf.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n", row[0], count.Attempted, count.Succeeded, count.Failed))
	}

	if len(report.Failures) > 0 {
		buf.WriteString("\n## Failures\n\n")
		for i, failure := range report.Failures {
			buf.WriteString(fmt.Sprintf("%d. `%s` %s: %s\n", i+1, failure.LegacyID, failure.Entity, failure.Reason))
		}
	}

	return buf.Bytes(), nil
}

// ReportToText converts a migration report to plain text for console output.
func ReportToText(report *etl.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Migration %s in %s\n", report.FinalState, report.Duration().Round(1e6)))
	buf.WriteString(fmt.Sprintf("Users:    %d/%d migrated\n", report.Users.Succeeded, report.Users.Attempted))
	buf.WriteString(fmt.Sprintf("Contacts: %d/%d migrated\n", report.Contacts.Succeeded, report.Contacts.Attempted))
	buf.WriteString(fmt.Sprintf("Tasks:    %d/%d migrated\n", report.Tasks.Succeeded, report.Tasks.Attempted))

	if len(report.Failures) > 0 {
		buf.WriteString("\nFailures:\n")
		for _, failure := range report.Failures {
			buf.WriteString(fmt.Sprintf("  - %s %s: %s\n", failure.Entity, failure.LegacyID, failure.Reason))
		}
	}

	return buf.Bytes(), nil
}
