// Package patterns implements the catalogue of reusable motifs that the
// analyzer and the pattern-based composer draw from.
package patterns

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/vsariola/mensura"
	"gopkg.in/yaml.v3"
)

// ErrNoCandidates is returned (wrapped) when a filtered query that must
// produce a pattern has nothing to choose from.
var ErrNoCandidates = errors.New("no pattern matches the query")

// Library is a catalogue of patterns grouped by pattern type. Adding
// patterns is not synchronized: a library must have a single writer and no
// concurrent readers while it is written to. Use one library per session if
// several goroutines need to add patterns.
type Library struct {
	buckets map[mensura.PatternType][]mensura.MusicalPattern
	order   []mensura.PatternType // bucket creation order, for deterministic queries
	names   map[string]struct{}
}

// Filter narrows a query. Zero fields do not filter.
type Filter struct {
	Mode       mensura.Mode
	Form       mensura.Form
	Instrument mensura.InstrumentType
	Types      []mensura.PatternType
	Tags       []string
}

func (f Filter) String() string {
	var parts []string
	if f.Mode != "" {
		parts = append(parts, "mode="+string(f.Mode))
	}
	if f.Form != "" {
		parts = append(parts, "form="+string(f.Form))
	}
	if f.Instrument != "" {
		parts = append(parts, "instrument="+string(f.Instrument))
	}
	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}
		parts = append(parts, "types="+strings.Join(types, "|"))
	}
	if len(f.Tags) > 0 {
		parts = append(parts, "tags="+strings.Join(f.Tags, ","))
	}
	if len(parts) == 0 {
		return "unfiltered"
	}
	return strings.Join(parts, " ")
}

// NewEmpty returns a library without any patterns.
func NewEmpty() *Library {
	return &Library{buckets: map[mensura.PatternType][]mensura.MusicalPattern{}, names: map[string]struct{}{}}
}

// New returns a library seeded with the built-in catalogue.
func New() *Library {
	l := NewEmpty()
	for _, p := range catalogue() {
		if err := l.Add(p); err != nil {
			panic(fmt.Sprintf("built-in pattern catalogue is invalid: %v", err))
		}
	}
	return l
}

// Add appends a pattern to the catalogue. Names must be unique.
func (l *Library) Add(p mensura.MusicalPattern) error {
	if p.Name == "" {
		return errors.New("pattern has no name")
	}
	if p.PatternType == "" {
		return fmt.Errorf("pattern %q has no type", p.Name)
	}
	if _, ok := l.names[p.Name]; ok {
		return fmt.Errorf("pattern %q already exists", p.Name)
	}
	if _, ok := l.buckets[p.PatternType]; !ok {
		l.order = append(l.order, p.PatternType)
	}
	l.buckets[p.PatternType] = append(l.buckets[p.PatternType], p.Copy())
	l.names[p.Name] = struct{}{}
	return nil
}

// Len returns the number of patterns in the library.
func (l *Library) Len() int {
	return len(l.names)
}

// Types returns the pattern types present in the library, in the order
// their first pattern was added.
func (l *Library) Types() []mensura.PatternType {
	return append([]mensura.PatternType(nil), l.order...)
}

// Get returns the pattern with the given name.
func (l *Library) Get(name string) (mensura.MusicalPattern, bool) {
	for _, t := range l.order {
		for _, p := range l.buckets[t] {
			if p.Name == name {
				return p.Copy(), true
			}
		}
	}
	return mensura.MusicalPattern{}, false
}

// All returns every pattern of the library.
func (l *Library) All() []mensura.MusicalPattern {
	return l.Query(Filter{})
}

// ByMode returns the patterns written in exactly the given mode.
func (l *Library) ByMode(m mensura.Mode) []mensura.MusicalPattern {
	return l.Query(Filter{Mode: m})
}

// ByForm returns the patterns whose type suits the form.
func (l *Library) ByForm(f mensura.Form) []mensura.MusicalPattern {
	return l.Query(Filter{Form: f})
}

// ForInstrument returns the patterns the instrument can sensibly play.
func (l *Library) ForInstrument(t mensura.InstrumentType) []mensura.MusicalPattern {
	return l.Query(Filter{Instrument: t})
}

// ByTags returns the patterns carrying all of the tags.
func (l *Library) ByTags(tags ...string) []mensura.MusicalPattern {
	return l.Query(Filter{Tags: tags})
}

// Query returns copies of all patterns matching every criterion of the
// filter, in catalogue order.
func (l *Library) Query(f Filter) []mensura.MusicalPattern {
	var ret []mensura.MusicalPattern
	for _, t := range l.order {
		if !typeAllowed(t, f) {
			continue
		}
		for _, p := range l.buckets[t] {
			if f.Mode != "" && p.Mode != f.Mode {
				continue
			}
			if len(f.Tags) > 0 && !p.HasTags(f.Tags...) {
				continue
			}
			if f.Instrument != "" && !InstrumentAccepts(f.Instrument, &p) {
				continue
			}
			ret = append(ret, p.Copy())
		}
	}
	return ret
}

func typeAllowed(t mensura.PatternType, f Filter) bool {
	if len(f.Types) > 0 && !containsType(f.Types, t) {
		return false
	}
	if f.Form != "" && !containsType(FormTypes[f.Form], t) {
		return false
	}
	return true
}

// Random picks one of the patterns matching the filter. It fails with
// ErrNoCandidates rather than falling back to an unfiltered pick.
func (l *Library) Random(rng *rand.Rand, f Filter) (mensura.MusicalPattern, error) {
	candidates := l.Query(f)
	if len(candidates) == 0 {
		return mensura.MusicalPattern{}, fmt.Errorf("%w: %v", ErrNoCandidates, f)
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// AdaptToMode transposes the pattern into the target mode by a single ratio:
// the target's reference final divided by the pitch of the first sounding
// note. Rhythm is preserved. This is a plain transposition, not a remapping
// of scale degrees.
func AdaptToMode(p mensura.MusicalPattern, target mensura.Mode) mensura.MusicalPattern {
	ret := p.Copy()
	ret.Mode = target
	info, ok := target.Info()
	if !ok {
		return ret
	}
	first := 0.0
	for _, n := range p.Notes {
		if n.Sounding() {
			first = n.Pitch
			break
		}
	}
	if first == 0 {
		return ret
	}
	factor := info.Final / first
	for i, n := range ret.Notes {
		if n.Sounding() {
			ret.Notes[i].Pitch = n.Pitch * factor
		}
	}
	if p.Mode != target {
		ret.Name = p.Name + "@" + string(target)
	}
	return ret
}

// WriteYAML writes the whole catalogue as a YAML list.
func (l *Library) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l.All()); err != nil {
		return fmt.Errorf("could not encode pattern library: %w", err)
	}
	return enc.Close()
}

// LoadYAML reads a YAML list of patterns into a new library.
func LoadYAML(r io.Reader) (*Library, error) {
	var list []mensura.MusicalPattern
	if err := yaml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("could not decode pattern library: %w", err)
	}
	l := NewEmpty()
	for _, p := range list {
		if err := l.Add(p); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func containsType(list []mensura.PatternType, t mensura.PatternType) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}
