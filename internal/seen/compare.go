package seen

import "github.com/jimezsa/internhunt/internal/models"

// DiffStats counts what Diff saw while filtering out known postings.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidSeen  int
	InvalidInput int
	Added        int
	TotalOut     int
}

func (s MergeStats) InvalidSkipped() int {
	return s.InvalidSeen + s.InvalidInput
}

// keySet remembers posting identities.
type keySet map[string]struct{}

// add records job and reports whether it had a key and whether that key
// was new.
func (ks keySet) add(job models.JobPosting) (valid bool, fresh bool) {
	key, ok := Key(job)
	if !ok {
		return false, false
	}
	if _, exists := ks[key]; exists {
		return true, false
	}
	ks[key] = struct{}{}
	return true, true
}

func (ks keySet) has(job models.JobPosting) bool {
	key, ok := Key(job)
	if !ok {
		return false
	}
	_, exists := ks[key]
	return exists
}

// Diff returns the postings in newJobs whose key is absent from seenJobs.
// Repeats inside newJobs are emitted once; keyless postings are skipped.
func Diff(newJobs []models.JobPosting, seenJobs []models.JobPosting) ([]models.JobPosting, DiffStats) {
	stats := DiffStats{TotalNew: len(newJobs), TotalSeen: len(seenJobs)}

	history := keySet{}
	for _, job := range seenJobs {
		if valid, _ := history.add(job); !valid {
			stats.InvalidSeen++
		}
	}

	emitted := keySet{}
	unseen := make([]models.JobPosting, 0, len(newJobs))
	for _, job := range newJobs {
		valid, fresh := emitted.add(job)
		switch {
		case !valid:
			stats.InvalidNew++
		case fresh && !history.has(job):
			unseen = append(unseen, job)
		}
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge appends unseen input postings to the history. Existing entries win
// collisions, and keyless history entries are carried over untouched.
func Merge(existingSeen []models.JobPosting, inputJobs []models.JobPosting) ([]models.JobPosting, MergeStats) {
	stats := MergeStats{TotalSeen: len(existingSeen), TotalInput: len(inputJobs)}

	keys := keySet{}
	out := make([]models.JobPosting, 0, len(existingSeen)+len(inputJobs))
	for _, job := range existingSeen {
		valid, fresh := keys.add(job)
		if !valid {
			stats.InvalidSeen++
		}
		if !valid || fresh {
			out = append(out, job)
		}
	}

	for _, job := range inputJobs {
		valid, fresh := keys.add(job)
		if !valid {
			stats.InvalidInput++
			continue
		}
		if fresh {
			out = append(out, job)
			stats.Added++
		}
	}

	stats.TotalOut = len(out)
	return out, stats
}
