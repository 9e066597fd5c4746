package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
)

var (
	rollExistsPattern   = regexp.MustCompile(`SELECT COUNT\(\*\) FROM user_data WHERE roll_no = \?`)
	insertSubmissionPat = regexp.MustCompile(`INSERT INTO user_data \(name, roll_no, email, drive_link, status, domain\)`)
)

func TestCreateSubmissionNormalizesDomainAndStartsPending(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: rollExistsPattern,
			args:    []driver.Value{"21MA3001"},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: insertSubmissionPat,
			args: []driver.Value{
				"Jane Doe", "21MA3001", "jane@example.org", "https://drive.example/cv",
				int64(1), "finance-quant",
			},
			result: scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := NewSubmissionService(db).Create(NewSubmission{
		Name:      "Jane Doe",
		RollNo:    "21MA3001",
		Email:     "jane@example.org",
		DriveLink: "https://drive.example/cv",
		Domain:    "Finance/Quant",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSubmissionRejectsDuplicateRoll(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: rollExistsPattern,
			args:    []driver.Value{"21MA3001"},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := NewSubmissionService(db).Create(NewSubmission{
		Name:      "Jane Doe",
		RollNo:    "21MA3001",
		Email:     "jane@example.org",
		DriveLink: "https://drive.example/cv",
		Domain:    "Data",
	})
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
