package rigging

// propagateIdentity assigns contextual names to the immediate nested records of rec:
// a single nested record is named after its field, a map entry after its key.
// Deeper levels were named when they were themselves instantiated.
func (r *Registry) propagateIdentity(rec *Record) {
	for _, f := range rec.def.fields {
		switch v := rec.values[f.Name].(type) {
		case *Record:
			v.contextualName = r.contextualName(f.Name)
		case *RecordMap:
			for _, key := range v.keys {
				v.items[key].contextualName = key
			}
		}
	}
}
