package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jimezsa/internhunt/internal/models"
)

var sample = []models.JobPosting{
	{Title: "Software Intern", Company: "Acme", Link: "https://www.linkedin.com/jobs/view/1", Source: "LinkedIn"},
	{Title: "Data Intern", Company: "Beta, Inc", Link: "https://internshala.com/internship/detail/2", Source: "Internshala"},
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJobs(&buf, sample, FormatCSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(lines))
	}
	if lines[0] != "source,title,company,link" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[2], `"Beta, Inc"`) {
		t.Fatalf("company with comma not quoted: %q", lines[2])
	}
}

func TestWriteJSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJobs(&buf, nil, FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	var out []models.JobPosting
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestWriteTableShortLinks(t *testing.T) {
	var buf bytes.Buffer
	opts := WriteOptions{Hyperlinks: true, LinkStyle: LinkStyleShort}
	if err := WriteJobs(&buf, sample[:1], FormatTable, opts); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	if !strings.Contains(buf.String(), "linkedin.com/jobs/view/1") {
		t.Fatalf("short label missing: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "\x1b]8;;https://www.linkedin.com/jobs/view/1") {
		t.Fatalf("hyperlink escape missing: %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("MD"); err != nil || f != FormatMarkdown {
		t.Fatalf("ParseFormat(MD) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
