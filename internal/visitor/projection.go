package visitor

import "sort"

// PageSize is the fixed number of records per list page.
const PageSize = 5

// Tab selects which partition of the projection is shown.
type Tab string

const (
	TabActive    Tab = "active"    // status != completed
	TabCompleted Tab = "completed" // status == completed
)

// Projection is a display-ready view over fetched records: deduplicated
// by id (first occurrence wins), sorted ascending by visit start date,
// and partitioned by completion. It is recomputed on every fetch and
// never cached beyond the current query result.
type Projection struct {
	active    []*Record
	completed []*Record
}

// NewProjection builds a projection from raw fetched records.
func NewProjection(records []*Record) *Projection {
	seen := make(map[string]bool, len(records))
	deduped := make([]*Record, 0, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		deduped = append(deduped, rec)
	}

	// YYYY-MM-DD sorts chronologically as a string.
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].VisitStartDate < deduped[j].VisitStartDate
	})

	p := &Projection{}
	for _, rec := range deduped {
		if rec.Status == StatusCompleted {
			p.completed = append(p.completed, rec)
		} else {
			p.active = append(p.active, rec)
		}
	}
	return p
}

// Records returns the full partition for a tab, in display order.
func (p *Projection) Records(tab Tab) []*Record {
	if tab == TabCompleted {
		return p.completed
	}
	return p.active
}

// Page returns page n (1-based) of the tab's partition.
func (p *Projection) Page(tab Tab, n int) []*Record {
	recs := p.Records(tab)
	if n < 1 {
		n = 1
	}
	start := (n - 1) * PageSize
	if start >= len(recs) {
		return nil
	}
	end := start + PageSize
	if end > len(recs) {
		end = len(recs)
	}
	return recs[start:end]
}

// PageCount returns the number of pages in the tab's partition.
func (p *Projection) PageCount(tab Tab) int {
	return (len(p.Records(tab)) + PageSize - 1) / PageSize
}

// ListView tracks which tab and page the list screen is showing.
// Switching tabs resets the page to 1.
type ListView struct {
	tab  Tab
	page int
}

// NewListView starts on the active tab, page 1.
func NewListView() *ListView {
	return &ListView{tab: TabActive, page: 1}
}

// Tab returns the current tab.
func (v *ListView) Tab() Tab { return v.tab }

// Page returns the current page (1-based).
func (v *ListView) Page() int { return v.page }

// SelectTab switches tabs; changing tab resets the page to 1.
func (v *ListView) SelectTab(tab Tab) {
	if tab != v.tab {
		v.tab = tab
		v.page = 1
	}
}

// SetPage moves to the given page, clamped to at least 1.
func (v *ListView) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	v.page = n
}

// Visible returns the records for the view's current tab and page.
func (v *ListView) Visible(p *Projection) []*Record {
	return p.Page(v.tab, v.page)
}
