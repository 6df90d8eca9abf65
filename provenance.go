package rigging

import (
	"sort"
	"strings"
)

// Provenance contains source information for the leaf values of a loaded record.
type Provenance struct {
	Fields []FieldProvenance
}

// FieldProvenance describes where a leaf value came from.
type FieldProvenance struct {
	FieldPath  string `json:"field_path"`  // Dot notation of internal names (e.g., "behavior_boards.main.port_name")
	SourceName string `json:"source_name"` // Source identifier (e.g., "env:RIG_")
}

// Lookup returns the provenance of a leaf path, or of the nearest ancestor that was
// supplied whole.
func (p *Provenance) Lookup(path string) (FieldProvenance, bool) {
	if p == nil {
		return FieldProvenance{}, false
	}
	for cur := path; cur != ""; {
		for _, f := range p.Fields {
			if f.FieldPath == cur {
				return f, true
			}
		}
		i := strings.LastIndexByte(cur, '.')
		if i < 0 {
			break
		}
		cur = cur[:i]
	}
	return FieldProvenance{}, false
}

// GetProvenance returns provenance metadata for a record returned by Loader.Load.
// Provenance lives on the record itself and is released with it. Thread-safe.
func GetProvenance(rec *Record) (*Provenance, bool) {
	if rec == nil {
		return nil, false
	}
	prov := rec.provenance.Load()
	return prov, prov != nil
}

func storeProvenance(rec *Record, prov *Provenance) {
	if rec != nil && prov != nil {
		rec.provenance.Store(prov)
	}
}

// ForgetProvenance drops the provenance of rec, e.g. before handing the record to
// code that should not see where its values came from.
func ForgetProvenance(rec *Record) {
	if rec != nil {
		rec.provenance.Store(nil)
	}
}

func provenanceFields(origins map[string]string) []FieldProvenance {
	fields := make([]FieldProvenance, 0, len(origins))
	for path, source := range origins {
		fields = append(fields, FieldProvenance{FieldPath: path, SourceName: source})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].FieldPath < fields[j].FieldPath })
	return fields
}
