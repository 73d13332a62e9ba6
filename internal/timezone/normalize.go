package timezone

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// EnvelopeKey is the member the upstream API nests the continent mapping under.
const EnvelopeKey = "timezones_by_continent"

var entryValidator = validator.New()

// Normalize turns a decoded upstream payload into the canonical cache shape.
//
// The payload is either {"timezones_by_continent": {...}} or the bare
// continent mapping. Records that lack a usable slug or offset are dropped,
// a continent whose records were all dropped is kept with an empty group,
// and a slug already seen (continents visited in name order) is skipped.
// Unrecognized payloads normalize to the empty state.
func Normalize(raw any) CacheState {
	out := Empty()

	continents, ok := continentMapping(raw)
	if !ok {
		return out
	}

	names := make([]string, 0, len(continents))
	for name := range continents {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := map[string]struct{}{}
	offsets := map[int]struct{}{}
	for _, name := range names {
		if name == "" {
			continue
		}
		records, ok := continents[name].([]any)
		if !ok {
			continue
		}

		group := make(ContinentGroup, 0, len(records))
		for _, record := range records {
			entry, ok := entryFromRecord(record)
			if !ok {
				continue
			}
			if _, dup := seen[entry.Slug]; dup {
				continue
			}
			seen[entry.Slug] = struct{}{}
			offsets[entry.Offset] = struct{}{}
			group = append(group, entry)
		}
		out.TimezonesByContinent[name] = group
	}

	for offset := range offsets {
		out.RawOffsets = append(out.RawOffsets, offset)
	}
	sort.Ints(out.RawOffsets)

	return out
}

// NormalizeJSON decodes body and normalizes it. Only undecodable bytes are an error.
func NormalizeJSON(body []byte) (CacheState, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Empty(), fmt.Errorf("decode timezones payload: %w", err)
	}
	return Normalize(raw), nil
}

// Dropped reports how many raw records of payload did not make it into state.
func Dropped(raw any, state CacheState) int {
	continents, ok := continentMapping(raw)
	if !ok {
		return 0
	}
	total := 0
	for _, records := range continents {
		if list, ok := records.([]any); ok {
			total += len(list)
		}
	}
	return total - state.Entries()
}

func continentMapping(raw any) (map[string]any, bool) {
	top, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	if nested, ok := top[EnvelopeKey]; ok {
		continents, ok := nested.(map[string]any)
		return continents, ok
	}
	return top, true
}

func entryFromRecord(record any) (Entry, bool) {
	fields, ok := record.(map[string]any)
	if !ok {
		return Entry{}, false
	}

	slug, _ := fields["value"].(string)
	if slug == "" {
		slug, _ = fields["slug"].(string)
	}

	offset, ok := ParseOffset(fields["offset"])
	if !ok {
		return Entry{}, false
	}

	entry := Entry{Slug: slug, Offset: offset}
	if err := entryValidator.Struct(entry); err != nil {
		return Entry{}, false
	}
	return entry, true
}
