package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/ui"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatCSV, FormatJSON, FormatMarkdown, FormatTSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q", value)
	}
}

func WriteJobs(w io.Writer, jobs []models.JobPosting, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatCSV:
		return writeCSV(w, jobs, ',')
	case FormatTSV:
		return writeCSV(w, jobs, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, jobs)
	default:
		return writeTable(w, jobs, opts)
	}
}

func writeJSON(w io.Writer, jobs []models.JobPosting) error {
	if jobs == nil {
		jobs = []models.JobPosting{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}

var header = []string{"source", "title", "company", "link"}

func writeCSV(w io.Writer, jobs []models.JobPosting, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := writer.Write([]string{job.Source, job.Title, job.Company, job.Link}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []models.JobPosting, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	output := termenv.NewOutput(w)
	for _, job := range jobs {
		row := []string{safe(job.Source), safe(job.Title), safe(job.Company), displayLink(job.Link, output, opts)}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, jobs []models.JobPosting) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for i, job := range jobs {
		link := "-"
		if l := safe(job.Link); l != "" {
			link = fmt.Sprintf("[Open listing](<%s>)", l)
		}
		if _, err := fmt.Fprintf(w, "%d. **%s** at %s (%s) %s\n", i+1, safe(job.Title), safe(job.Company), safe(job.Source), link); err != nil {
			return err
		}
	}
	return nil
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func displayLink(raw string, output *termenv.Output, opts WriteOptions) string {
	link := safe(raw)
	if link == "" {
		return "-"
	}
	label := link
	if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
		label = shortURLLabel(link)
	}
	label = ui.ColorizeLink(output, opts.ColorEnabled, label)
	if opts.Hyperlinks {
		label = hyperlink(link, label)
	}
	return label
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
