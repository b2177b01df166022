package jpeg

import (
	"fmt"
	"slices"
	"strings"
)

// APP2 ICC markers carry the tag "ICC_PROFILE\0", a 1-based sequence
// number, the total chunk count, then up to 65519 bytes of profile data.
const (
	iccMarkerTag    = "ICC_PROFILE\x00"
	iccMarkerHeader = len(iccMarkerTag) + 2
)

type iccChunk struct {
	seq  int
	data []byte
}

// ExtractICC reassembles an ICC profile from raw APP2 marker payloads
// (the marker bytes themselves excluded). Payloads without the ICC tag
// are ignored. Returns nil, nil when no ICC markers are present; returns
// an error when markers are present but the chunk set is inconsistent,
// incomplete, or duplicated.
func ExtractICC(markers [][]byte) ([]byte, error) {
	var (
		chunks []iccChunk
		total  int
		size   int
	)

	for _, m := range markers {
		if len(m) < iccMarkerHeader || !strings.HasPrefix(string(m), iccMarkerTag) {
			continue
		}
		seq := int(m[len(iccMarkerTag)])
		count := int(m[len(iccMarkerTag)+1])
		switch {
		case seq == 0 || seq > count:
			return nil, fmt.Errorf("invalid ICC chunk sequence %d/%d", seq, count)
		case total == 0:
			total = count
		case count != total:
			return nil, fmt.Errorf("inconsistent ICC chunk count: %d vs %d", count, total)
		}
		for _, c := range chunks {
			if c.seq == seq {
				return nil, fmt.Errorf("duplicate ICC chunk %d/%d", seq, count)
			}
		}
		data := m[iccMarkerHeader:]
		chunks = append(chunks, iccChunk{seq: seq, data: data})
		size += len(data)
	}

	if chunks == nil {
		return nil, nil // no ICC profile present
	}
	if len(chunks) != total {
		return nil, fmt.Errorf("expected %d ICC chunks, found %d", total, len(chunks))
	}

	// APP2 markers may appear in any order in the stream.
	slices.SortFunc(chunks, func(a, b iccChunk) int { return a.seq - b.seq })

	profile := make([]byte, 0, size)
	for _, c := range chunks {
		profile = append(profile, c.data...)
	}
	return profile, nil
}
