// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/nssedit/nssedit/internal/issue"
	"github.com/nssedit/nssedit/pkg/nss"
)

func TestIDsList(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("ids", "list", "HIDE")

	if got, want := h.stdout.String(), "id.copy\nid.cut\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestIDsList_FilterAndNames(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("ids", "list", "hide", "--filter", "CUT", "--names")

	out := h.stdout.String()
	if !strings.Contains(out, "id.cut") || !strings.Contains(out, "Cut") {
		t.Errorf("stdout = %q, want id.cut with its display name", out)
	}
	if strings.Contains(out, "id.copy") {
		t.Errorf("filter should drop id.copy: %q", out)
	}
}

func TestIDsAvailable(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("ids", "available")

	got := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	for _, used := range []string{"id.copy", "id.cut", "id.share", "id.open_in_new_window"} {
		if slices.Contains(got, used) {
			t.Errorf("available ids include %s, which a section already lists", used)
		}
	}
	if !slices.Contains(got, "id.paste") {
		t.Error("available ids should include id.paste")
	}

	h.reset()
	h.mustRun("ids", "available", "--filter", "new window")
	want := "id.open_new_window\n"
	if got := h.stdout.String(); got != want {
		t.Errorf("filtered available ids = %q, want %q", got, want)
	}
}

func TestIDsSet(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("ids", "set", "more", "id.share", "id.rename")

	want := strings.Replace(testTarget, "\tid.share\n) menu", "\tid.share,\n\tid.rename\n) menu", 1)
	if got := h.target(); got != want {
		t.Errorf("target after set =\n%s\nwant\n%s", got, want)
	}
	if !strings.Contains(h.stdout.String(), "more: 2 ids saved") {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestIDsAdd(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("ids", "add", "hide", "id.cut", "id.paste")

	want := strings.Replace(testTarget, "\tid.cut\n) vis=vis.remove", "\tid.cut,\n\tid.paste\n) vis=vis.remove", 1)
	if got := h.target(); got != want {
		t.Errorf("target after add =\n%s", got)
	}
	if !strings.Contains(h.stderr.String(), "hide already lists id.cut") {
		t.Errorf("stderr = %q, want duplicate warning", h.stderr.String())
	}
}

func TestIDsAdd_NothingNew(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("ids", "add", "hide", "id.copy")

	if got := h.target(); got != testTarget {
		t.Errorf("file changed although nothing was added:\n%s", got)
	}
}

func TestIDsRemove(t *testing.T) {
	h := newCLIHarness(t)
	h.mustRun("ids", "remove", "hide", "id.copy")

	want := strings.Replace(testTarget, "\tid.copy,\n\tid.cut\n", "\tid.cut\n", 1)
	if got := h.target(); got != want {
		t.Errorf("target after remove =\n%s", got)
	}
}

func TestIDsRemove_LastIDRejected(t *testing.T) {
	h := newCLIHarness(t)

	err := h.run("ids", "remove", "more", "id.share")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.EmptySectionId {
		t.Fatalf("error = %v, want EmptySection service error", err)
	}
	if got := h.target(); got != testTarget {
		t.Errorf("file changed on rejected save:\n%s", got)
	}
}

func TestIDsSet_EmptyRejected(t *testing.T) {
	h := newCLIHarness(t)

	err := h.run("ids", "set", "shift")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.EmptySectionId {
		t.Fatalf("error = %v, want EmptySection service error", err)
	}
}

func TestIDsAdd_RejectsNonID(t *testing.T) {
	h := newCLIHarness(t)

	err := h.run("ids", "add", "hide", "copy", "id.paste")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.InvalidEntryId {
		t.Fatalf("error = %v, want InvalidEntry service error", err)
	}
	if got := h.target(); got != testTarget {
		t.Errorf("file changed on rejected add:\n%s", got)
	}
	if !strings.Contains(h.stderr.String(), "Not an id") {
		t.Errorf("stderr does not render the catalog entry:\n%s", h.stderr.String())
	}
}

func TestIDsSet_RejectsNonID(t *testing.T) {
	h := newCLIHarness(t)

	err := h.run("ids", "set", "more", "id.share", "share")
	if !errors.Is(err, nss.ErrInvalidID) {
		t.Fatalf("error = %v, want ErrInvalidID", err)
	}
	if got := h.target(); got != testTarget {
		t.Errorf("file changed on rejected set:\n%s", got)
	}
}

func TestIDs_UnknownSection(t *testing.T) {
	h := newCLIHarness(t)

	err := h.run("ids", "list", "sideways")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.UnknownSectionId {
		t.Fatalf("error = %v, want UnknownSection service error", err)
	}
}

func TestNormalizeIDs(t *testing.T) {
	t.Parallel()

	got := normalizeIDs([]string{" id.a, ", "", ",", "id.b"})
	if strings.Join(got, "|") != "id.a|id.b" {
		t.Errorf("normalizeIDs() = %v", got)
	}
}

func TestCompleteSection(t *testing.T) {
	t.Parallel()

	names, _ := completeSection(nil, nil, "")
	if strings.Join(names, ",") != "hide,more,shift" {
		t.Errorf("completeSection() = %v", names)
	}
	if names, _ := completeSection(nil, []string{"hide"}, ""); names != nil {
		t.Errorf("completeSection() after section = %v, want nil", names)
	}
}
