package resume

// Record is a normalized resume in the canonical shape. Every record carries
// the same top-level keys regardless of how much the oracle extracted;
// callers can rely on the keys existing and being of the declared kind.
type Record map[string]any

var contactKeys = []string{"name", "email", "phone", "location", "linkedin", "github", "portfolio"}

var skillKeys = []string{"technical", "soft", "languages", "tools"}

var sequenceKeys = []string{"education", "work_experience", "projects", "certifications", "publications"}

// NewRecord returns an all-defaults record: null contact fields, empty
// sequences, empty skill lists. The summary key is present (and null) only
// when requested.
func NewRecord(includeSummary bool) Record {
	rec := Record{
		"contact_info": defaultContactInfo(),
		"skills":       defaultSkills(),
	}

	for _, key := range sequenceKeys {
		rec[key] = []any{}
	}

	if includeSummary {
		rec["summary"] = nil
	}

	return rec
}

func defaultContactInfo() map[string]any {
	info := make(map[string]any, len(contactKeys))
	for _, key := range contactKeys {
		info[key] = nil
	}
	return info
}

func defaultSkills() map[string]any {
	skills := make(map[string]any, len(skillKeys))
	for _, key := range skillKeys {
		skills[key] = []any{}
	}
	return skills
}

// Normalize reconciles raw oracle output against the canonical shape. Only
// declared keys are copied: for the nested contact_info and skills mappings
// the declared sub-keys, for sequence keys the value verbatim. Unknown keys
// are dropped, missing ones keep their typed default. The summary key is
// included only when requested; when not requested it is absent entirely,
// not null.
func Normalize(raw map[string]any, includeSummary bool) Record {
	rec := Record{
		"contact_info": copySubKeys(raw, "contact_info", contactKeys, defaultContactInfo()),
		"skills":       copySubKeys(raw, "skills", skillKeys, defaultSkills()),
	}

	for _, key := range sequenceKeys {
		if value, ok := raw[key]; ok {
			rec[key] = value
		} else {
			rec[key] = []any{}
		}
	}

	if includeSummary {
		if value, ok := raw["summary"]; ok {
			rec["summary"] = value
		} else {
			rec["summary"] = nil
		}
	}

	return rec
}

func copySubKeys(raw map[string]any, key string, keys []string, defaults map[string]any) map[string]any {
	nested, ok := raw[key].(map[string]any)
	if !ok {
		return defaults
	}

	for _, subKey := range keys {
		if value, ok := nested[subKey]; ok {
			defaults[subKey] = value
		}
	}

	return defaults
}

// ContactField returns the named contact_info field, or the empty string
// when the field is null, missing, or not a string.
func (r Record) ContactField(field string) string {
	info, ok := r["contact_info"].(map[string]any)
	if !ok {
		return ""
	}
	return stringValue(info[field])
}

// SkillList returns the string entries of the named skills category.
func (r Record) SkillList(category string) []string {
	skills, ok := r["skills"].(map[string]any)
	if !ok {
		return nil
	}
	return StringList(skills[category])
}

// EducationEntries returns the education entries that are mappings.
func (r Record) EducationEntries() []map[string]any {
	return mappingEntries(r["education"])
}

// ExperienceEntries returns the work_experience entries that are mappings.
func (r Record) ExperienceEntries() []map[string]any {
	return mappingEntries(r["work_experience"])
}

// SectionLen reports the length of a sequence-valued top-level key, zero
// when the value is not a sequence.
func (r Record) SectionLen(key string) int {
	seq, ok := r[key].([]any)
	if !ok {
		return 0
	}
	return len(seq)
}

// StringList extracts the string elements from a sequence value. Anything
// that is not a sequence, and any non-string element, is skipped.
func StringList(value any) []string {
	seq, ok := value.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(seq))
	for _, item := range seq {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mappingEntries(value any) []map[string]any {
	seq, ok := value.([]any)
	if !ok {
		return nil
	}

	out := make([]map[string]any, 0, len(seq))
	for _, item := range seq {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// StringField returns the named field of a free-form entry as a string, or
// the empty string when it is missing or not a string.
func StringField(entry map[string]any, key string) string {
	return stringValue(entry[key])
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}
