package analysis

import (
	"strconv"
	"strings"

	"github.com/gowdl/wdlsem/internal/types"
	"golang.org/x/mod/semver"
)

// ParseVersion parses the raw text of a document's `version` header. The
// WDL header carries a bare "MAJOR.MINOR" (never a patch or pre-release
// component), so this reformats it as a semver string purely to reuse
// golang.org/x/mod/semver's well-tested validation before splitting it
// back into a types.Version; see DESIGN.md for why a hand-rolled
// types.Version stays the representation callers actually use. Only 1.0,
// 1.1 and 1.2 are recognized; any other well-formed MAJOR.MINOR reports
// ok=false like malformed text does.
//
// "development" resolves to fallback, matching the configurable
// development-version policy described in SPEC_FULL.md §11.
func ParseVersion(raw string, fallback types.Version) (types.Version, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Version{}, false
	}
	if raw == "development" {
		return fallback, true
	}
	candidate := "v" + raw
	if !semver.IsValid(candidate) {
		return types.Version{}, false
	}
	mm := semver.MajorMinor(candidate) // "vMAJOR.MINOR"
	major, minor, ok := splitMajorMinor(mm)
	if !ok {
		return types.Version{}, false
	}
	v := types.Version{Major: major, Minor: minor}
	switch v {
	case types.V1_0, types.V1_1, types.V1_2:
		return v, true
	}
	return types.Version{}, false
}

func splitMajorMinor(v string) (major, minor int, ok bool) {
	v = strings.TrimPrefix(v, "v")
	parts := strings.SplitN(v, ".", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	maj, err1 := strconv.Atoi(parts[0])
	min, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return maj, min, true
}
