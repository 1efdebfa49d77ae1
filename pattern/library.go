package pattern

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/google/uuid"
)

//go:embed patterns/*.json
var builtin embed.FS

// Subgroup holds patterns sharing a subgroup label
type Subgroup struct {
	Name     string
	Patterns []*Pattern
}

// Group holds subgroups sharing a group label
type Group struct {
	Name      string
	Subgroups []Subgroup
}

// Library is a read-only pattern catalogue grouped by group and subgroup,
// in first-seen order.
type Library struct {
	Groups []Group

	all  []*Pattern
	byID map[uuid.UUID]*Pattern
}

// NewLibrary groups patterns by their group/subgroup labels.
func NewLibrary(patterns []*Pattern) *Library {
	l := &Library{byID: make(map[uuid.UUID]*Pattern, len(patterns))}

	groupIdx := make(map[string]int)
	subIdx := make(map[[2]string]int)

	for _, p := range patterns {
		gi, ok := groupIdx[p.Group]
		if !ok {
			gi = len(l.Groups)
			groupIdx[p.Group] = gi
			l.Groups = append(l.Groups, Group{Name: p.Group})
		}
		key := [2]string{p.Group, p.Subgroup}
		si, ok := subIdx[key]
		if !ok {
			si = len(l.Groups[gi].Subgroups)
			subIdx[key] = si
			l.Groups[gi].Subgroups = append(l.Groups[gi].Subgroups, Subgroup{Name: p.Subgroup})
		}
		sub := &l.Groups[gi].Subgroups[si]
		sub.Patterns = append(sub.Patterns, p)

		if _, dup := l.byID[p.ID()]; !dup {
			l.byID[p.ID()] = p
		}
	}

	// flatten in tree order so All matches what a browser shows
	for _, g := range l.Groups {
		for _, s := range g.Subgroups {
			l.all = append(l.all, s.Patterns...)
		}
	}
	return l
}

// Decode reads a JSON array of patterns.
func Decode(r io.Reader) ([]*Pattern, error) {
	var patterns []*Pattern
	if err := json.NewDecoder(r).Decode(&patterns); err != nil {
		return nil, fault.Wrap(err, fmsg.With("decode patterns"), ftag.With(ftag.InvalidArgument))
	}
	return patterns, nil
}

// LoadLibrary decodes a JSON array of patterns into a library.
func LoadLibrary(r io.Reader) (*Library, error) {
	patterns, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return NewLibrary(patterns), nil
}

// LoadFiles reads pattern JSON files in order.
func LoadFiles(paths ...string) ([]*Pattern, error) {
	var all []*Pattern
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("open pattern file %s", p)))
		}
		patterns, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With(p))
		}
		all = append(all, patterns...)
	}
	return all, nil
}

// Builtin returns the patterns bundled with the binary.
func Builtin() ([]*Pattern, error) {
	entries, err := fs.ReadDir(builtin, "patterns")
	if err != nil {
		return nil, err
	}
	var all []*Pattern
	for _, entry := range entries {
		f, err := builtin.Open(path.Join("patterns", entry.Name()))
		if err != nil {
			return nil, err
		}
		patterns, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With(entry.Name()))
		}
		all = append(all, patterns...)
	}
	return all, nil
}

// MustBuiltin is Builtin for startup code; the bundled data is known good.
func MustBuiltin() []*Pattern {
	patterns, err := Builtin()
	if err != nil {
		panic(fmt.Sprintf("failed to load bundled patterns: %v", err))
	}
	return patterns
}

// All returns every pattern in tree order
func (l *Library) All() []*Pattern {
	return l.all
}

// Find looks a pattern up by id.
func (l *Library) Find(id string) (*Pattern, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, notFound(id)
	}
	p, ok := l.byID[u]
	if !ok {
		return nil, notFound(id)
	}
	return p, nil
}

// Lookup resolves an id or, failing that, a case-insensitive title.
// An exact title match wins over a prefix match.
func (l *Library) Lookup(query string) (*Pattern, error) {
	if p, err := l.Find(query); err == nil {
		return p, nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var prefix *Pattern
	for _, p := range l.all {
		title := strings.ToLower(p.Title)
		if title == q {
			return p, nil
		}
		if prefix == nil && q != "" && strings.HasPrefix(title, q) {
			prefix = p
		}
	}
	if prefix != nil {
		return prefix, nil
	}
	return nil, notFound(query)
}

func notFound(query string) error {
	return fault.Wrap(ErrNotFound, fmsg.With(fmt.Sprintf("%q", query)), ftag.With(ftag.NotFound))
}
