package catalog

// MinPopularity is the inclusion threshold for cast members; entries
// at or below it are not persisted.
const MinPopularity = 0.8

// ActingDepartment is the department tag a cast member must carry to
// be persisted.
const ActingDepartment = "Acting"

// FilterCast returns the cast entries worth persisting: department
// "Acting", popularity strictly above MinPopularity, and not flagged
// adult (an absent flag counts as not adult). Input order is
// preserved and no deduplication happens here — duplicate credit ids
// collapse later at the store's merge identity.
func FilterCast(cast []CastEntry) []CastEntry {
	var kept []CastEntry
	for _, entry := range cast {
		if entry.KnownForDepartment != ActingDepartment {
			continue
		}
		if entry.Popularity <= MinPopularity {
			continue
		}
		if entry.Adult != nil && *entry.Adult {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
