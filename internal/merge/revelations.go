package merge

import (
	"sort"
	"strconv"

	"github.com/mayflower/storyteller/internal/story"
)

// mergeRevelations appends the reader and character revelation logs and
// runs the continuity resolver when the delta carries continuity
// issues. A delta with no continuity issues leaves the existing ones
// untouched.
func mergeRevelations(existing, delta *story.Revelations, sink *warningSink) *story.Revelations {
	if delta == nil {
		return existing
	}
	result := existing
	if result == nil {
		result = &story.Revelations{}
	}
	result.Reader = AppendList(result.Reader, delta.Reader)
	result.Characters = AppendList(result.Characters, delta.Characters)
	if delta.ContinuityIssues != nil {
		result.ContinuityIssues = resolveContinuityIssues(result.ContinuityIssues, delta.ContinuityIssues, sink)
	}
	return result
}

// resolveContinuityIssues keeps at most one canonical record per
// after_chapter key. A completed record is never displaced by an
// uncompleted one; among uncompleted records the incoming side wins
// because it represents fresher analysis. Issues without an
// after_chapter key cannot be deduplicated and are dropped; that
// looseness is inherited policy, surfaced as a warning rather than an
// error.
func resolveContinuityIssues(existing, incoming []story.ContinuityIssue, sink *warningSink) []story.ContinuityIssue {
	best := make(map[string]story.ContinuityIssue, len(existing)+len(incoming))

	for _, issue := range existing {
		ch := issue.AfterChapter
		if ch == "" {
			if sink != nil {
				sink.add("revelations", "", "continuity_issues", "existing issue has no after_chapter; dropped")
			}
			continue
		}
		stored, ok := best[ch]
		if !ok || (issue.Resolved() && !stored.Resolved()) {
			best[ch] = issue
		}
	}

	for _, issue := range incoming {
		ch := issue.AfterChapter
		if ch == "" {
			if sink != nil {
				sink.add("revelations", "", "continuity_issues", "new issue has no after_chapter; dropped")
			}
			continue
		}
		stored, ok := best[ch]
		if !ok || issue.Resolved() || !stored.Resolved() {
			// Detach from the delta operand's backing array.
			issue.Issues = append([]string(nil), issue.Issues...)
			best[ch] = issue
		}
	}

	chapters := make([]string, 0, len(best))
	for ch := range best {
		chapters = append(chapters, ch)
	}
	sort.Slice(chapters, func(i, j int) bool {
		return chapterLess(chapters[i], chapters[j])
	})

	result := make([]story.ContinuityIssue, 0, len(chapters))
	for _, ch := range chapters {
		result = append(result, best[ch])
	}
	return result
}

// chapterLess orders chapter keys numerically when both parse as
// numbers, lexically otherwise, so resolver output is deterministic.
func chapterLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
