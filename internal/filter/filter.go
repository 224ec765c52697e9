// Package filter holds the dashboard's filter selection.
//
// A Selection maps a Dimension to its chosen value. An unset dimension is
// absent from the map, so the backend receives a strict intersection of
// the dimensions the user actually constrained.
package filter

import (
	"net/url"
	"sort"

	"vagas-dashboard/internal/domain"
)

type Dimension string

const (
	Source   Dimension = "fonte"
	Status   Dimension = "status"
	WorkMode Dimension = "modalidade"
	English  Dimension = "requisito_ingles"
)

// Dimensions lists the recognised dimensions in panel order.
var Dimensions = []Dimension{Source, Status, WorkMode, English}

type Option struct {
	Value string
	Label string
}

type Control struct {
	Dimension Dimension
	Label     string
	AnyLabel  string // label of the "no constraint" choice
	Options   []Option
	Selected  string
}

var controls = []Control{
	{
		Dimension: Source, Label: "Fonte", AnyLabel: "Todas",
		Options: []Option{
			{string(domain.SourceIndeed), "Indeed"},
			{string(domain.SourceLinkedInJobs), "LinkedIn Vagas"},
			{string(domain.SourceLinkedInPosts), "LinkedIn Posts"},
		},
	},
	{
		Dimension: Status, Label: "Status", AnyLabel: "Todos",
		Options: []Option{
			{string(domain.StatusPending), "Pendente"},
			{string(domain.StatusApplied), "Aplicada"},
			{string(domain.StatusDiscarded), "Descartada"},
		},
	},
	{
		Dimension: WorkMode, Label: "Modalidade", AnyLabel: "Todas",
		Options: []Option{
			{string(domain.WorkModeRemote), "Remoto"},
			{string(domain.WorkModeHybrid), "Híbrido"},
			{string(domain.WorkModeOnSite), "Presencial"},
		},
	},
	{
		Dimension: English, Label: "Inglês", AnyLabel: "Todos",
		Options: []Option{
			{string(domain.EnglishNone), "Nenhum"},
			{string(domain.EnglishBasic), "Básico"},
			{string(domain.EnglishIntermediate), "Intermediário"},
			{string(domain.EnglishFluent), "Fluente"},
		},
	},
}

// Valid reports whether value is one of the fixed options of d.
func Valid(d Dimension, value string) bool {
	for _, c := range controls {
		if c.Dimension != d {
			continue
		}
		for _, o := range c.Options {
			if o.Value == value {
				return true
			}
		}
	}
	return false
}

// Selection is immutable from the caller's point of view: every mutator
// returns a fresh copy.
type Selection map[Dimension]string

// With returns a copy with d set to value. The empty value ("Todas") and
// values outside the option set remove the key instead of storing them.
func (s Selection) With(d Dimension, value string) Selection {
	out := s.clone()
	if value == "" || !Valid(d, value) {
		delete(out, d)
		return out
	}
	out[d] = value
	return out
}

// Clear returns the empty selection regardless of s.
func (s Selection) Clear() Selection {
	return Selection{}
}

func (s Selection) Get(d Dimension) string {
	return s[d]
}

func (s Selection) Equal(o Selection) bool {
	if len(s) != len(o) {
		return false
	}
	for k, v := range s {
		if o[k] != v {
			return false
		}
	}
	return true
}

// Values encodes the selection as query parameters. Unset dimensions are
// omitted entirely.
func (s Selection) Values() url.Values {
	v := url.Values{}
	for _, d := range Dimensions {
		if val, ok := s[d]; ok && val != "" {
			v.Set(string(d), val)
		}
	}
	return v
}

// Keys returns the set dimensions in panel order.
func (s Selection) Keys() []Dimension {
	var out []Dimension
	for _, d := range Dimensions {
		if _, ok := s[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (s Selection) clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FromQuery builds a selection from request parameters, dropping unknown
// dimensions and values that are not in the option sets.
func FromQuery(q url.Values) Selection {
	sel := Selection{}
	for _, d := range Dimensions {
		sel = sel.With(d, q.Get(string(d)))
	}
	return sel
}

// Panel returns one control per dimension with the current value filled in.
func Panel(s Selection) []Control {
	out := make([]Control, 0, len(controls))
	for _, c := range controls {
		c.Selected = s[c.Dimension]
		out = append(out, c)
	}
	return out
}

// String renders the selection deterministically, for logs.
func (s Selection) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ","
		}
		out += k + "=" + s[Dimension(k)]
	}
	return out
}
