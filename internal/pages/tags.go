package pages

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/repostat/internal/stats"
)

// TagRow is one tag with its per-author commit summary.
type TagRow struct {
	Name    string
	Date    string
	Commits int
	// Authors lists "name (n)" entries, fewest commits first, joined by ", ".
	Authors string
}

// TagsPage lists the most recent tags.
type TagsPage struct {
	Common

	TagsCount int
	Tags      []TagRow
}

// Tags builds the tags page: newest first, capped at MaxRecentTags (zero
// meaning no cap). Tags without commits are skipped and do not count
// toward the cap.
func (a *Assembler) Tags() TagsPage {
	page := TagsPage{
		Common:    a.settings.common(TitleTags),
		TagsCount: len(a.model.Tags),
	}

	limit := a.settings.Limits().MaxRecentTags

	for _, tag := range a.model.TagsByDate() {
		if limit > 0 && len(page.Tags) >= limit {
			break
		}

		if !tag.HasCommits() {
			continue
		}

		page.Tags = append(page.Tags, TagRow{
			Name:    tag.Name,
			Date:    tag.Date.Format(DateFormat),
			Commits: tag.Commits,
			Authors: tagAuthors(tag.Authors),
		})
	}

	return page
}

func tagAuthors(authors []stats.AuthorCount) string {
	ordered := make([]stats.AuthorCount, len(authors))
	copy(ordered, authors)

	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Commits < ordered[j].Commits })

	parts := make([]string, len(ordered))
	for i, ac := range ordered {
		parts[i] = fmt.Sprintf("%s (%d)", ac.Name, ac.Commits)
	}

	return strings.Join(parts, nameSeparator)
}
