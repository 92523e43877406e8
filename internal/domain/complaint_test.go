package domain

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(ComplaintStatusSubmitted, ComplaintStatusAssigned) {
		t.Fatal("expected submitted -> assigned to be allowed")
	}
	if !CanTransition(ComplaintStatusAssigned, ComplaintStatusInProgress) {
		t.Fatal("expected assigned -> in_progress to be allowed")
	}
	if !CanTransition(ComplaintStatusInProgress, ComplaintStatusResolved) {
		t.Fatal("expected in_progress -> resolved to be allowed")
	}
	if CanTransition(ComplaintStatusSubmitted, ComplaintStatusInProgress) {
		t.Fatal("unexpected transition submitted -> in_progress allowed")
	}
	if CanTransition(ComplaintStatusSubmitted, ComplaintStatusResolved) {
		t.Fatal("unexpected transition submitted -> resolved allowed")
	}
}

func TestRejectionFromNonTerminal(t *testing.T) {
	for _, from := range []ComplaintStatus{ComplaintStatusSubmitted, ComplaintStatusAssigned, ComplaintStatusInProgress} {
		if !CanTransition(from, ComplaintStatusRejected) {
			t.Fatalf("expected %s -> rejected to be allowed", from)
		}
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	targets := []ComplaintStatus{
		ComplaintStatusSubmitted,
		ComplaintStatusAssigned,
		ComplaintStatusInProgress,
		ComplaintStatusResolved,
		ComplaintStatusRejected,
	}
	for _, terminal := range []ComplaintStatus{ComplaintStatusResolved, ComplaintStatusRejected} {
		if !IsTerminal(terminal) {
			t.Fatalf("expected %s to be terminal", terminal)
		}
		for _, to := range targets {
			if CanTransition(terminal, to) {
				t.Fatalf("unexpected transition %s -> %s allowed", terminal, to)
			}
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(ComplaintStatusInProgress) {
		t.Fatal("expected IN_PROGRESS to be valid")
	}
	if ValidStatus(ComplaintStatus("CLOSED")) {
		t.Fatal("unexpected status CLOSED accepted")
	}
}

func TestOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := &Complaint{Status: ComplaintStatusInProgress, SLADeadline: &past}
	if !open.Overdue(now) {
		t.Fatal("expected open complaint past deadline to be overdue")
	}

	resolved := &Complaint{Status: ComplaintStatusResolved, SLADeadline: &past}
	if resolved.Overdue(now) {
		t.Fatal("terminal complaint must not be overdue")
	}

	onTime := &Complaint{Status: ComplaintStatusAssigned, SLADeadline: &future}
	if onTime.Overdue(now) {
		t.Fatal("complaint before deadline must not be overdue")
	}

	noDeadline := &Complaint{Status: ComplaintStatusSubmitted}
	if noDeadline.Overdue(now) {
		t.Fatal("complaint without deadline must not be overdue")
	}
}
