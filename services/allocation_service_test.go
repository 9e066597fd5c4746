package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
)

var (
	unassignedPattern = regexp.MustCompile(`(?s)SELECT roll_no, domain\s+FROM user_data\s+WHERE status = \? AND assigned_to IS NULL\s+ORDER BY domain, id ASC`)
	statsPattern      = regexp.MustCompile(`(?s)SELECT\s+r\.name,.*FROM reviewer_data r.*ORDER BY r\.domains, total_assigned ASC`)
	assignPattern     = regexp.MustCompile(`UPDATE user_data SET assigned_to = \? WHERE roll_no = \?`)

	statsColumns      = []string{"name", "domains", "quota", "completed_reviews", "total_assigned", "remaining_capacity"}
	unassignedColumns = []string{"roll_no", "domain"}
)

func TestRunSmartAllocationNoUnassignedIsNoOp(t *testing.T) {
	ClearStatsCache()

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: unassignedPattern,
			args:    []driver.Value{int64(1)},
			columns: unassignedColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewAllocationService(db).RunSmartAllocation()
	if err != nil {
		t.Fatalf("RunSmartAllocation returned error: %v", err)
	}
	if result.Allocated != 0 {
		t.Fatalf("expected 0 allocations, got %d", result.Allocated)
	}
	if result.Summary != "No unassigned CVs" {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
	if len(result.Assignments) != 0 {
		t.Fatalf("expected no assignments, got %v", result.Assignments)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunSmartAllocationBalancesLoadAcrossReviewers(t *testing.T) {
	ClearStatsCache()

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: unassignedPattern,
			args:    []driver.Value{int64(1)},
			columns: unassignedColumns,
			rows: [][]driver.Value{
				{"21CS1001", "data"},
				{"21CS1002", "data"},
			},
		},
		{
			kind:    kindQuery,
			pattern: statsPattern,
			args:    []driver.Value{int64(1)},
			columns: statsColumns,
			rows: [][]driver.Value{
				{"Alice", "data", int64(2), int64(0), int64(0), int64(2)},
				{"Bob", "data", int64(2), int64(0), int64(0), int64(2)},
			},
		},
		{
			kind:    kindExec,
			pattern: assignPattern,
			args:    []driver.Value{"Alice", "21CS1001"},
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: assignPattern,
			args:    []driver.Value{"Bob", "21CS1002"},
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewAllocationService(db).RunSmartAllocation()
	if err != nil {
		t.Fatalf("RunSmartAllocation returned error: %v", err)
	}
	if result.Allocated != 2 {
		t.Fatalf("expected 2 allocations, got %d", result.Allocated)
	}
	if result.Assignments[0] != "21CS1001 → Alice" || result.Assignments[1] != "21CS1002 → Bob" {
		t.Fatalf("unexpected assignments: %v", result.Assignments)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunSmartAllocationRespectsCapacityAndSkipsUncoveredDomains(t *testing.T) {
	ClearStatsCache()

	// One data reviewer with a single slot left, two data CVs and one
	// consult CV nobody covers: only the first data CV is assigned.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: unassignedPattern,
			args:    []driver.Value{int64(1)},
			columns: unassignedColumns,
			rows: [][]driver.Value{
				{"21EE2001", "consult"},
				{"21CS1001", "data"},
				{"21CS1002", "data"},
			},
		},
		{
			kind:    kindQuery,
			pattern: statsPattern,
			args:    []driver.Value{int64(1)},
			columns: statsColumns,
			rows: [][]driver.Value{
				{"Alice", "data", int64(3), int64(2), int64(2), int64(1)},
			},
		},
		{
			kind:    kindExec,
			pattern: assignPattern,
			args:    []driver.Value{"Alice", "21CS1001"},
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewAllocationService(db).RunSmartAllocation()
	if err != nil {
		t.Fatalf("RunSmartAllocation returned error: %v", err)
	}
	if result.Allocated != 1 {
		t.Fatalf("expected 1 allocation, got %d", result.Allocated)
	}
	if result.Assignments[0] != "21CS1001 → Alice" {
		t.Fatalf("unexpected assignments: %v", result.Assignments)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunSmartAllocationMatchesDomainVariants(t *testing.T) {
	ClearStatsCache()

	// Legacy rows can still carry separator variants; both sides
	// normalize to the same code.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: unassignedPattern,
			args:    []driver.Value{int64(1)},
			columns: unassignedColumns,
			rows: [][]driver.Value{
				{"21MA3001", "Finance/Quant"},
			},
		},
		{
			kind:    kindQuery,
			pattern: statsPattern,
			args:    []driver.Value{int64(1)},
			columns: statsColumns,
			rows: [][]driver.Value{
				{"Carol", "Finance-Quant,product", int64(2), int64(0), int64(0), int64(2)},
			},
		},
		{
			kind:    kindExec,
			pattern: assignPattern,
			args:    []driver.Value{"Carol", "21MA3001"},
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewAllocationService(db).RunSmartAllocation()
	if err != nil {
		t.Fatalf("RunSmartAllocation returned error: %v", err)
	}
	if result.Allocated != 1 {
		t.Fatalf("expected 1 allocation, got %d", result.Allocated)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunSmartAllocationReportsPartialBatchFailure(t *testing.T) {
	ClearStatsCache()

	writeErr := errors.New("connection reset")
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: unassignedPattern,
			args:    []driver.Value{int64(1)},
			columns: unassignedColumns,
			rows: [][]driver.Value{
				{"21CS1001", "data"},
				{"21CS1002", "data"},
			},
		},
		{
			kind:    kindQuery,
			pattern: statsPattern,
			args:    []driver.Value{int64(1)},
			columns: statsColumns,
			rows: [][]driver.Value{
				{"Alice", "data", int64(2), int64(0), int64(0), int64(2)},
				{"Bob", "data", int64(2), int64(0), int64(0), int64(2)},
			},
		},
		{
			kind:    kindExec,
			pattern: assignPattern,
			args:    []driver.Value{"Alice", "21CS1001"},
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: assignPattern,
			args:    []driver.Value{"Bob", "21CS1002"},
			err:     writeErr,
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewAllocationService(db).RunSmartAllocation()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected wrapped write error, got: %v", err)
	}
	if result == nil || result.Allocated != 1 {
		t.Fatalf("expected 1 committed assignment before failure, got %+v", result)
	}
	if result.Assignments[0] != "21CS1001 → Alice" {
		t.Fatalf("unexpected assignments: %v", result.Assignments)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatsServedFromCacheWithinTTL(t *testing.T) {
	ClearStatsCache()
	t.Cleanup(ClearStatsCache)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: statsPattern,
			args:    []driver.Value{int64(1)},
			columns: statsColumns,
			rows: [][]driver.Value{
				{"Alice", "data", int64(2), int64(1), int64(1), int64(1)},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAllocationService(db)

	first, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if len(first) != 1 || first[0].Name != "Alice" || first[0].RemainingCapacity != 1 {
		t.Fatalf("unexpected stats: %+v", first)
	}

	// Second call must not hit the store.
	second, err := svc.Stats()
	if err != nil {
		t.Fatalf("cached Stats returned error: %v", err)
	}
	if len(second) != 1 || second[0].CompletedReviews != 1 {
		t.Fatalf("unexpected cached stats: %+v", second)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatsTTLHonorsEnvSetAfterStartup(t *testing.T) {
	ClearStatsCache()
	t.Cleanup(ClearStatsCache)

	// The TTL comes from the environment at call time, so a value loaded
	// from .env after package init still applies. Zero disables caching.
	t.Setenv("ALLOCATION_STATS_TTL_SECONDS", "0")

	statsStep := func() *queryStep {
		return &queryStep{
			kind:    kindQuery,
			pattern: statsPattern,
			args:    []driver.Value{int64(1)},
			columns: statsColumns,
			rows: [][]driver.Value{
				{"Alice", "data", int64(2), int64(0), int64(0), int64(2)},
			},
		}
	}
	steps := []*queryStep{statsStep(), statsStep()}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAllocationService(db)
	if _, err := svc.Stats(); err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	// With the TTL disabled the second call re-queries the store.
	if _, err := svc.Stats(); err != nil {
		t.Fatalf("second Stats returned error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatsRetriesTransientReadErrors(t *testing.T) {
	ClearStatsCache()
	t.Cleanup(ClearStatsCache)

	transient := errors.New("bad connection")
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: statsPattern,
			args:    []driver.Value{int64(1)},
			err:     transient,
		},
		{
			kind:    kindQuery,
			pattern: statsPattern,
			args:    []driver.Value{int64(1)},
			columns: statsColumns,
			rows: [][]driver.Value{
				{"Alice", "data", int64(2), int64(0), int64(0), int64(2)},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	stats, err := NewAllocationService(db).Stats()
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if len(stats) != 1 || stats[0].Name != "Alice" {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
