package seen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimezsa/internhunt/internal/models"
)

var errNoPath = errors.New("path is required")

// ReadJobs reads a JSON array of postings. An empty file is an empty list.
func ReadJobs(path string) ([]models.JobPosting, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errNoPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	jobs := []models.JobPosting{}
	if strings.TrimSpace(string(data)) == "" {
		return jobs, nil
	}
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if jobs == nil {
		jobs = []models.JobPosting{}
	}
	return jobs, nil
}

func ReadJobsAllowMissing(path string) ([]models.JobPosting, error) {
	jobs, err := ReadJobs(path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.JobPosting{}, nil
	}
	return jobs, err
}

// WriteJobs replaces path with jobs as indented JSON. The file is written
// next to its destination and renamed into place, so readers never see a
// partial history.
func WriteJobs(path string, jobs []models.JobPosting) error {
	if strings.TrimSpace(path) == "" {
		return errNoPath
	}
	if jobs == nil {
		jobs = []models.JobPosting{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
