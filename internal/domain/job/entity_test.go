package job

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAcceptsApplications(t *testing.T) {
	now := time.Now()

	j := &Job{LastDate: now.Add(24 * time.Hour)}
	if !j.AcceptsApplications(now) {
		t.Error("expected open deadline to accept applications")
	}

	j = &Job{LastDate: now.Add(-time.Minute)}
	if j.AcceptsApplications(now) {
		t.Error("expected passed deadline to reject applications")
	}

	j = &Job{LastDate: now}
	if j.AcceptsApplications(now) {
		t.Error("expected deadline equal to now to reject applications")
	}
}

func TestHasApplicant(t *testing.T) {
	applied := uuid.New()
	other := uuid.New()

	j := &Job{Applicants: []Applicant{{UserID: applied, Resume: "a.pdf"}}}

	if !j.HasApplicant(applied) {
		t.Error("expected recorded applicant to be found")
	}
	if j.HasApplicant(other) {
		t.Error("expected unknown user to be absent")
	}
}
