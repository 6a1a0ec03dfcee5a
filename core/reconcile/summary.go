package reconcile

// Summary provides aggregate statistics for a set of resolutions.
type Summary struct {
	// Total is the number of registered targets.
	Total int `json:"total"`

	// Resolved counts targets with any match.
	Resolved int `json:"resolved"`

	// Unresolved counts targets without a match.
	Unresolved int `json:"unresolved"`

	// Confirmed, High and Medium count resolutions per tier.
	Confirmed int `json:"confirmed"`
	High      int `json:"high"`
	Medium    int `json:"medium"`

	// WithLicenses counts targets that carried at least one usable license.
	WithLicenses int `json:"with_licenses"`

	// WithPhones counts targets that carried at least one usable phone.
	WithPhones int `json:"with_phones"`
}

func (s *Summary) add(rec *record) {
	s.Total++
	if len(rec.keys.Licenses) > 0 {
		s.WithLicenses++
	}
	if len(rec.keys.Phones) > 0 {
		s.WithPhones++
	}
	if !rec.res.Resolved {
		s.Unresolved++
		return
	}
	s.Resolved++
	switch rec.res.Confidence {
	case Confirmed:
		s.Confirmed++
	case High:
		s.High++
	case Medium:
		s.Medium++
	}
}

// WithoutLicenses counts targets with no usable license.
func (s Summary) WithoutLicenses() int {
	return s.Total - s.WithLicenses
}

// WithoutPhones counts targets with no usable phone.
func (s Summary) WithoutPhones() int {
	return s.Total - s.WithPhones
}

// Percent expresses n as a percentage of Total, 0 for an empty summary.
func (s Summary) Percent(n int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(n) / float64(s.Total) * 100
}
