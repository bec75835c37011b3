package pages

import (
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/repostat/internal/stats"
)

// Assembler builds page models from one statistics snapshot.
type Assembler struct {
	model    *stats.Snapshot
	settings Settings
}

// NewAssembler returns an assembler reading model with the given settings.
func NewAssembler(model *stats.Snapshot, settings Settings) *Assembler {
	return &Assembler{model: model, settings: settings}
}

// GeneralPage is the repository overview.
type GeneralPage struct {
	Common

	ProjectName string
	Branch      string

	AgeDays         int
	ActiveDays      int
	ActiveDaysRatio float64

	Commits      int
	Authors      int
	Files        int
	Lines        int
	LinesAdded   int
	LinesRemoved int

	CommitsPerActiveDay float64
	CommitsPerAuthor    float64

	FirstCommit string
	LastCommit  string

	GeneratedAt        string
	GenerationDuration string
}

// General builds the overview page. now is the generation time; the duration
// is measured from the moment statistics collection started.
func (a *Assembler) General(now time.Time) GeneralPage {
	m := a.model

	page := GeneralPage{
		Common:             a.settings.common(TitleGeneral),
		ProjectName:        m.Repository.Name,
		Branch:             m.Repository.Branch,
		AgeDays:            m.AgeDays(),
		ActiveDays:         m.ActiveDaysCount,
		Commits:            m.Totals.Commits,
		Authors:            len(m.Authors),
		Files:              m.Totals.Files,
		Lines:              m.Totals.Lines,
		LinesAdded:         m.Totals.LinesAdded,
		LinesRemoved:       m.Totals.LinesRemoved,
		FirstCommit:        m.FirstCommit.Format(DateTimeFormat),
		LastCommit:         m.LastCommit.Format(DateTimeFormat),
		GeneratedAt:        now.Format(DateTimeFormat),
		GenerationDuration: fmt.Sprintf("%.3f", generationSeconds(m.CreatedAt, now)),
	}

	page.ActiveDaysRatio = Ratio(page.ActiveDays, page.AgeDays)

	if page.ActiveDays > 0 {
		page.CommitsPerActiveDay = float64(page.Commits) / float64(page.ActiveDays)
	}

	if page.Authors > 0 {
		page.CommitsPerAuthor = float64(page.Commits) / float64(page.Authors)
	}

	return page
}

// generationSeconds returns the time elapsed since collection started, or zero
// when the model does not record a start time.
func generationSeconds(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}

	return now.Sub(createdAt).Seconds()
}
