// Package catalog holds the reference tables that map integer entity IDs to
// ARG and MGE names, resistance classes and MGE structural groups.
//
// A Catalog is built once per run and never mutated afterwards; it is
// passed by pointer to the graph builder, the query engine and the
// exporters.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind distinguishes the two entity families.
type Kind int

const (
	KindARG Kind = iota
	KindMGE
)

func (k Kind) String() string {
	switch k {
	case KindARG:
		return "ARG"
	case KindMGE:
		return "MGE"
	default:
		return "unknown"
	}
}

// ParseKind accepts "ARG" or "MGE" in any case.
func ParseKind(s string) (Kind, error) {
	switch {
	case strings.EqualFold(s, "ARG"):
		return KindARG, nil
	case strings.EqualFold(s, "MGE"):
		return KindMGE, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ClassDrugs is the resistance class of ARGs conferring antibiotic
// resistance. Everything else (metals, biocides, multi-compound) is
// dropped when non-drug exclusion is requested.
const ClassDrugs = "Drugs"

var (
	ErrNotFound     = errors.New("entity not found")
	ErrDuplicateID  = errors.New("duplicate entity id")
	ErrDuplicateKey = errors.New("duplicate entity name")
	ErrUnknownKind  = errors.New("unknown entity kind")
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// ARG describes one antibiotic resistance gene.
type ARG struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Class string `yaml:"class"` // resistance class, e.g. "Drugs", "Metals"
	Group string `yaml:"group"` // drug class, e.g. "Aminoglycosides"
	// RequiresSNPConfirmation marks genes whose resistance depends on a
	// point mutation and cannot be called from presence alone.
	RequiresSNPConfirmation bool `yaml:"snp"`
}

// MGE describes one mobile genetic element.
type MGE struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Label string `yaml:"label"` // short display name; falls back to Name
	Group string `yaml:"group"` // structural group, e.g. "plasmid", "IS"
}

// Catalog is an immutable lookup service over ARGs and MGEs.
type Catalog struct {
	args      map[int]ARG
	mges      map[int]MGE
	argByName map[string]int
	mgeByName map[string]int
}

// New validates the entries and builds a Catalog. IDs and names must be
// unique within each kind.
func New(args []ARG, mges []MGE) (*Catalog, error) {
	c := &Catalog{
		args:      make(map[int]ARG, len(args)),
		mges:      make(map[int]MGE, len(mges)),
		argByName: make(map[string]int, len(args)),
		mgeByName: make(map[string]int, len(mges)),
	}

	for _, a := range args {
		if a.ID < 0 || a.Name == "" {
			return nil, fmt.Errorf("%w: ARG id=%d name=%q", ErrInvalidEntry, a.ID, a.Name)
		}
		if _, dup := c.args[a.ID]; dup {
			return nil, fmt.Errorf("%w: ARG %d", ErrDuplicateID, a.ID)
		}
		if _, dup := c.argByName[a.Name]; dup {
			return nil, fmt.Errorf("%w: ARG %q", ErrDuplicateKey, a.Name)
		}
		c.args[a.ID] = a
		c.argByName[a.Name] = a.ID
	}

	for _, m := range mges {
		if m.ID < 0 || m.Name == "" {
			return nil, fmt.Errorf("%w: MGE id=%d name=%q", ErrInvalidEntry, m.ID, m.Name)
		}
		if _, dup := c.mges[m.ID]; dup {
			return nil, fmt.Errorf("%w: MGE %d", ErrDuplicateID, m.ID)
		}
		if _, dup := c.mgeByName[m.Name]; dup {
			return nil, fmt.Errorf("%w: MGE %q", ErrDuplicateKey, m.Name)
		}
		c.mges[m.ID] = m
		c.mgeByName[m.Name] = m.ID
	}

	return c, nil
}

// ResolveID maps a name to its ID. Lookups are exact and case-sensitive.
func (c *Catalog) ResolveID(kind Kind, name string) (int, error) {
	var (
		id int
		ok bool
	)
	switch kind {
	case KindARG:
		id, ok = c.argByName[name]
	case KindMGE:
		id, ok = c.mgeByName[name]
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}
	return id, nil
}

// ResolveName maps an ID to its name. Unknown IDs render as
// "Unknown ARG ID <n>" / "Unknown MGE ID <n>" so reports never fail on a
// missing entry.
func (c *Catalog) ResolveName(kind Kind, id int) string {
	switch kind {
	case KindARG:
		if a, ok := c.args[id]; ok {
			return a.Name
		}
	case KindMGE:
		if m, ok := c.mges[id]; ok {
			return m.Name
		}
	}
	return UnknownName(kind, id)
}

// UnknownName is the placeholder rendered for IDs missing from the catalog.
func UnknownName(kind Kind, id int) string {
	return fmt.Sprintf("Unknown %s ID %d", kind, id)
}

// LookupARG returns the ARG entry for id.
func (c *Catalog) LookupARG(id int) (ARG, bool) {
	a, ok := c.args[id]
	return a, ok
}

// LookupMGE returns the MGE entry for id.
func (c *Catalog) LookupMGE(id int) (MGE, bool) {
	m, ok := c.mges[id]
	return m, ok
}

func (c *Catalog) ARGName(id int) string { return c.ResolveName(KindARG, id) }
func (c *Catalog) MGEName(id int) string { return c.ResolveName(KindMGE, id) }

// MGELabel returns the short display label, falling back to the name.
func (c *Catalog) MGELabel(id int) string {
	if m, ok := c.mges[id]; ok && m.Label != "" {
		return m.Label
	}
	return c.MGEName(id)
}

// ResistanceClass returns the ARG's resistance class, or "" if unknown.
func (c *Catalog) ResistanceClass(id int) string {
	return c.args[id].Class
}

// ARGGroup returns the ARG's drug class, or "Unknown" if not recorded.
func (c *Catalog) ARGGroup(id int) string {
	if a, ok := c.args[id]; ok && a.Group != "" {
		return a.Group
	}
	return "Unknown"
}

// MGEGroup returns the MGE's structural group, or "Unknown" if not recorded.
func (c *Catalog) MGEGroup(id int) string {
	if m, ok := c.mges[id]; ok && m.Group != "" {
		return m.Group
	}
	return "Unknown"
}

// RequiresSNPConfirmation reports the SNP flag of an ARG. Unknown IDs
// report false.
func (c *Catalog) RequiresSNPConfirmation(argID int) bool {
	return c.args[argID].RequiresSNPConfirmation
}

// Len returns the number of ARGs and MGEs.
func (c *Catalog) Len() (args, mges int) {
	return len(c.args), len(c.mges)
}

// ARGIDs returns all ARG IDs in ascending order.
func (c *Catalog) ARGIDs() []int {
	return sortedKeys(c.args)
}

// MGEIDs returns all MGE IDs in ascending order.
func (c *Catalog) MGEIDs() []int {
	return sortedKeys(c.mges)
}

func sortedKeys[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
