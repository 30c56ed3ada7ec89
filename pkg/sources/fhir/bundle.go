package fhir

import "time"

// Bundle is the subset of a FHIR R4 search bundle the watchdog reads.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type BundleEntry struct {
	Resource Resource `json:"resource"`
}

// Resource is a loosely-typed FHIR resource; only Device and Patient fields
// the watchdog needs are mapped.
type Resource struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id"`
	Meta         *ResourceMeta `json:"meta,omitempty"`
	Type         *CodeableType `json:"type,omitempty"`
	Patient      *Reference    `json:"patient,omitempty"`
}

type ResourceMeta struct {
	LastUpdated time.Time `json:"lastUpdated"`
}

type CodeableType struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Coding struct {
	System string `json:"system,omitempty"`
	Code   string `json:"code,omitempty"`
}

type Reference struct {
	Reference string `json:"reference"`
}

// NextLink returns the pagination link for the following page, or "".
func (b *Bundle) NextLink() string {
	for _, link := range b.Link {
		if link.Relation == "next" {
			return link.URL
		}
	}

	return ""
}

// IsUrinaryCatheter reports whether the resource's type coding carries the
// SNOMED urinary catheter code.
func (r *Resource) IsUrinaryCatheter() bool {
	if r.Type == nil {
		return false
	}

	for _, coding := range r.Type.Coding {
		if coding.System == SNOMEDSystem && coding.Code == UrinaryCatheterCode {
			return true
		}
	}

	return false
}
