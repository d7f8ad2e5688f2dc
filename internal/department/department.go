// Package department provides the department catalog and the
// single-slot selection state used by the registration flow.
package department

// Departments is the fixed set of departments a visitor can register for.
var Departments = []string{
	"Elice Group",
	"Elice Enterprise",
	"Elice School",
	"Elice Track",
	"Elice Academy",
}

// Valid checks whether name is a known department.
func Valid(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

// Selection is the single currently-chosen department for the active
// registration session. It is an explicit state object passed to the
// screens that need it: set on the selection screen, read at submission.
// Last write wins; there is no explicit reset.
type Selection struct {
	value    string
	onChange func(string)
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// OnChange registers a hook invoked after every Set, letting the caller
// persist the selection (save-on-change).
func (s *Selection) OnChange(fn func(string)) {
	s.onChange = fn
}

// Set overwrites the stored value.
func (s *Selection) Set(name string) {
	s.value = name
	if s.onChange != nil {
		s.onChange(name)
	}
}

// Get returns the current value, or the empty string if never set.
// Emptiness is checked by the consuming screen, not here.
func (s *Selection) Get() string {
	return s.value
}
