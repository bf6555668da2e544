package extract

import "strings"

// pruneDanglingReferences drops fields that reference models which were not
// extracted, then models left without fields, until nothing changes.
// Endpoint type names pointing at removed models are cleared.
func (r *run) pruneDanglingReferences() {
	for {
		changed := false
		kept := r.models[:0:0]
		for _, model := range r.models {
			fields := model.Fields[:0:0]
			for _, field := range model.Fields {
				dt := field.ElementType()
				if dt != nil && dt.Reference {
					if _, ok := r.modelSet[dt.Name]; !ok {
						r.warn(model.Name+"."+field.SerializedName, "property dropped: referenced model %s was not extracted", dt.Name)
						changed = true
						continue
					}
				}
				fields = append(fields, field)
			}
			model.Fields = fields
			if len(model.Fields) == 0 {
				r.warn(model.Name, "model dropped: no properties left after removing unresolved references")
				delete(r.modelSet, model.Name)
				changed = true
				continue
			}
			kept = append(kept, model)
		}
		r.models = kept
		if !changed {
			break
		}
	}

	for i := range r.endpoints {
		endpoint := &r.endpoints[i]
		if !r.knownType(endpoint.RequestType) {
			endpoint.RequestType = ""
		}
		for j := range endpoint.Responses {
			if !r.knownType(endpoint.Responses[j].TypeName) {
				endpoint.Responses[j].TypeName = ""
			}
		}
	}
}

func (r *run) knownType(name string) bool {
	name = strings.TrimPrefix(name, "[]")
	if name == "" {
		return true
	}
	if _, ok := r.modelSet[name]; ok {
		return true
	}
	for _, dt := range r.types {
		if dt.Name == name {
			return true
		}
	}
	return false
}
