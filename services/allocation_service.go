package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"cv-portal-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewerLoad is one row of the allocation statistics snapshot: a
// reviewer with spare quota, annotated with current workload figures.
type ReviewerLoad struct {
	Name              string `gorm:"column:name" json:"name"`
	Domains           string `gorm:"column:domains" json:"domains"`
	Quota             int    `gorm:"column:quota" json:"quota"`
	CompletedReviews  int    `gorm:"column:completed_reviews" json:"completed_reviews"`
	TotalAssigned     int    `gorm:"column:total_assigned" json:"total_assigned"`
	RemainingCapacity int    `gorm:"column:remaining_capacity" json:"remaining_capacity"`
}

// CoversDomain reports whether the reviewer's affiliation contains the
// given domain, compared as canonical codes.
func (l *ReviewerLoad) CoversDomain(domain string) bool {
	code := models.NormalizeDomain(domain)
	for _, d := range models.ParseDomains(l.Domains) {
		if d == code {
			return true
		}
	}
	return false
}

// AllocationResult summarizes one smart-allocation run.
type AllocationResult struct {
	RunID       string   `json:"run_id"`
	Allocated   int      `json:"allocated"`
	Summary     string   `json:"summary"`
	Assignments []string `json:"assignments"`
}

// DomainCount is an unassigned-submissions tally for one domain.
type DomainCount struct {
	Domain string `gorm:"column:domain" json:"domain"`
	Count  int    `gorm:"column:count" json:"count"`
}

// AllocationService matches unassigned submissions to the least-loaded
// eligible reviewer per domain.
type AllocationService struct {
	db *gorm.DB
}

func NewAllocationService(db *gorm.DB) *AllocationService {
	return &AllocationService{db: db}
}

// Eligible reviewers are those with quota left over their completed
// count; ordering by (domains, total_assigned) puts the least-loaded
// reviewer first within a domain.
const allocationStatsQuery = `
SELECT
    r.name,
    r.domains,
    r.quota,
    COALESCE(done.completed, 0) AS completed_reviews,
    COALESCE(done.completed, 0) + COALESCE(open.pending_count, 0) AS total_assigned,
    r.quota - COALESCE(done.completed, 0) AS remaining_capacity
FROM reviewer_data r
LEFT JOIN (
    SELECT reviewer_name, COUNT(*) AS completed
    FROM reviews_data
    GROUP BY reviewer_name
) done ON done.reviewer_name = r.name
LEFT JOIN (
    SELECT assigned_to, COUNT(*) AS pending_count
    FROM user_data
    WHERE status = ? AND assigned_to IS NOT NULL
    GROUP BY assigned_to
) open ON open.assigned_to = r.name
WHERE r.quota > COALESCE(done.completed, 0)
ORDER BY r.domains, total_assigned ASC`

const unassignedQuery = `
SELECT roll_no, domain
FROM user_data
WHERE status = ? AND assigned_to IS NULL
ORDER BY domain, id ASC`

const unassignedByDomainQuery = `
SELECT domain, COUNT(*) AS count
FROM user_data
WHERE status = ? AND assigned_to IS NULL
GROUP BY domain
ORDER BY domain`

var (
	statsCacheMu sync.RWMutex
	statsCache   *statsCacheEntry
)

// Reads of the workload snapshot are eventually consistent within this
// window; callers needing fresh figures go through ClearStatsCache.
// Read per call so a .env loaded after package init still applies.
func statsTTL() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("ALLOCATION_STATS_TTL_SECONDS")); err == nil && v >= 0 {
		return time.Duration(v) * time.Second
	}
	return 30 * time.Second
}

type statsCacheEntry struct {
	loads     []ReviewerLoad
	fetchedAt time.Time
}

// ClearStatsCache invalidates the cached workload snapshot.
func ClearStatsCache() {
	statsCacheMu.Lock()
	defer statsCacheMu.Unlock()
	statsCache = nil
}

// Stats returns the allocation statistics snapshot, served from a short
// TTL cache to absorb concurrent dashboard reads.
func (s *AllocationService) Stats() ([]ReviewerLoad, error) {
	statsCacheMu.RLock()
	cached := statsCache
	statsCacheMu.RUnlock()

	ttl := statsTTL()
	if cached != nil && time.Since(cached.fetchedAt) < ttl {
		return cached.loads, nil
	}

	statsCacheMu.Lock()
	defer statsCacheMu.Unlock()

	if statsCache != nil && time.Since(statsCache.fetchedAt) < ttl {
		return statsCache.loads, nil
	}

	loads, err := s.queryStats()
	if err != nil {
		return nil, err
	}
	statsCache = &statsCacheEntry{loads: loads, fetchedAt: time.Now()}
	return loads, nil
}

func (s *AllocationService) queryStats() ([]ReviewerLoad, error) {
	var loads []ReviewerLoad
	err := retryRead(func() error {
		loads = nil
		return s.db.Raw(allocationStatsQuery, models.StatusPending).Scan(&loads).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load allocation stats: %w", err)
	}
	return loads, nil
}

// UnassignedByDomain tallies pending, unassigned submissions per domain.
func (s *AllocationService) UnassignedByDomain() ([]DomainCount, error) {
	var counts []DomainCount
	err := retryRead(func() error {
		counts = nil
		return s.db.Raw(unassignedByDomainQuery, models.StatusPending).Scan(&counts).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count unassigned submissions: %w", err)
	}
	return counts, nil
}

type pendingSubmission struct {
	RollNo string `gorm:"column:roll_no"`
	Domain string `gorm:"column:domain"`
}

// RunSmartAllocation assigns every unassigned pending submission to the
// least-loaded reviewer covering its domain. Submissions are processed
// in (domain, creation) order and the workload snapshot is taken once at
// batch start, with local bookkeeping keeping in-batch picks balanced.
// Each assignment write commits on its own, so a mid-batch failure keeps
// prior assignments and reports the count completed so far.
func (s *AllocationService) RunSmartAllocation() (*AllocationResult, error) {
	result := &AllocationResult{RunID: uuid.NewString()}

	var pending []pendingSubmission
	err := retryRead(func() error {
		pending = nil
		return s.db.Raw(unassignedQuery, models.StatusPending).Scan(&pending).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load unassigned submissions: %w", err)
	}

	if len(pending) == 0 {
		result.Summary = "No unassigned CVs"
		return result, nil
	}

	// Fresh snapshot for the run; the TTL cache is only for dashboard reads.
	loads, err := s.queryStats()
	if err != nil {
		return nil, err
	}

	for _, cv := range pending {
		idx := pickReviewer(loads, cv.Domain)
		if idx < 0 {
			// No eligible reviewer; the submission stays in the queue for
			// the next run.
			continue
		}

		reviewer := loads[idx].Name
		if err := s.db.Exec(
			"UPDATE user_data SET assigned_to = ? WHERE roll_no = ?",
			reviewer, cv.RollNo,
		).Error; err != nil {
			ClearStatsCache()
			result.Summary = fmt.Sprintf("Allocated %d CVs before failure", result.Allocated)
			return result, fmt.Errorf("allocation run %s halted after %d assignments: %w",
				result.RunID, result.Allocated, err)
		}

		result.Allocated++
		result.Assignments = append(result.Assignments, fmt.Sprintf("%s → %s", cv.RollNo, reviewer))

		loads[idx].TotalAssigned++
		loads[idx].RemainingCapacity--
	}

	result.Summary = fmt.Sprintf("Allocated %d CVs", result.Allocated)
	if result.Allocated > 0 {
		ClearStatsCache()
	}
	log.Printf("Allocation run %s: %s", result.RunID, result.Summary)
	return result, nil
}

// pickReviewer returns the index of the least-loaded reviewer covering
// the domain with capacity left, or -1. Ties keep the stable stats order.
func pickReviewer(loads []ReviewerLoad, domain string) int {
	best := -1
	for i := range loads {
		if loads[i].RemainingCapacity <= 0 || !loads[i].CoversDomain(domain) {
			continue
		}
		if best < 0 || loads[i].TotalAssigned < loads[best].TotalAssigned {
			best = i
		}
	}
	return best
}

const readRetryAttempts = 3

// retryRead retries a snapshot read a few times before surfacing the
// error; writes are never retried.
func retryRead(op func() error) error {
	var err error
	for attempt := 1; attempt <= readRetryAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt < readRetryAttempts {
			time.Sleep(time.Duration(attempt) * 150 * time.Millisecond)
		}
	}
	return err
}
