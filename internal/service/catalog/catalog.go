package catalog

import (
	"fmt"
	"sort"

	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

// Catalog is the immutable, versioned registry of canonical room types.
// Once loaded it is safe to share across concurrent pipeline runs.
type Catalog struct {
	version    string
	byCode     map[string]domain.CanonicalRoomType
	bySynonym  map[string]string
	normByCode map[string][]string
	ordered    []domain.CanonicalRoomType
}

// Load validates the entries and builds a catalog. Duplicate type codes and
// synonyms that normalize to the same string across different types are fatal
// (CatalogConflict); a catalog that passed Load answers lookups consistently.
func Load(version string, entries []domain.CanonicalRoomType) (*Catalog, error) {
	c := &Catalog{
		version:    version,
		byCode:     make(map[string]domain.CanonicalRoomType, len(entries)),
		bySynonym:  make(map[string]string),
		normByCode: make(map[string][]string, len(entries)),
		ordered:    make([]domain.CanonicalRoomType, 0, len(entries)),
	}

	for _, entry := range entries {
		if entry.Code == "" {
			return nil, fmt.Errorf("%w: entry %q has empty type code", constants.ErrCatalogConflict, entry.DisplayName)
		}
		if _, ok := c.byCode[entry.Code]; ok {
			return nil, fmt.Errorf("%w: duplicate type code %q", constants.ErrCatalogConflict, entry.Code)
		}
		c.byCode[entry.Code] = entry

		names := append([]string{entry.DisplayName}, entry.Synonyms...)
		for _, name := range names {
			normalized := NormalizeName(name)
			if normalized == "" {
				continue
			}

			owner, ok := c.bySynonym[normalized]
			if ok && owner != entry.Code {
				return nil, fmt.Errorf("%w: synonym %q maps to both type %s and type %s",
					constants.ErrCatalogConflict, name, owner, entry.Code)
			}
			c.bySynonym[normalized] = entry.Code
			c.normByCode[entry.Code] = append(c.normByCode[entry.Code], normalized)
		}
	}

	for _, entry := range c.byCode {
		c.ordered = append(c.ordered, entry)
	}
	sort.Slice(c.ordered, func(i, j int) bool { return c.ordered[i].Code < c.ordered[j].Code })

	return c, nil
}

func (c *Catalog) Version() string {
	return c.version
}

func (c *Catalog) Size() int {
	return len(c.ordered)
}

// Lookup returns the type registered under code.
func (c *Catalog) Lookup(code string) (domain.CanonicalRoomType, bool) {
	entry, ok := c.byCode[code]
	return entry, ok
}

// Candidates returns all types in ascending code order. The slice is shared;
// callers must not mutate it.
func (c *Catalog) Candidates() []domain.CanonicalRoomType {
	return c.ordered
}

// NormalizedSynonyms returns the pre-normalized names registered for a type,
// display name included.
func (c *Catalog) NormalizedSynonyms(code string) []string {
	return c.normByCode[code]
}

// SynonymOwner resolves an already-normalized name to its owning type code.
func (c *Catalog) SynonymOwner(normalized string) (string, bool) {
	code, ok := c.bySynonym[normalized]
	return code, ok
}
