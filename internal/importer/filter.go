package importer

import "github.com/adcalc/internal/xmlfeed"

// Only currently-valid radio broadcasting licenses are imported. The
// comparison is byte-exact against the extracted field text, no case or
// whitespace normalization beyond the extractor's trim.
const (
	DefaultStatusFilter   = "действующая"
	DefaultActivityFilter = "Радиовещание радиоканала"
)

// Filter admits records whose status and licensed activity both match
// the configured literals.
type Filter struct {
	Status   string
	Activity string
}

// DefaultFilter returns the production filter literals.
func DefaultFilter() Filter {
	return Filter{Status: DefaultStatusFilter, Activity: DefaultActivityFilter}
}

// Admit reports whether the record passes both filters.
func (f Filter) Admit(rec *xmlfeed.Record) bool {
	return xmlfeed.Text(rec.Status) == f.Status &&
		xmlfeed.Text(rec.LicensedActivity) == f.Activity
}
