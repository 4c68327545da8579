package archiveset

import (
	"regexp"
	"sort"
	"strings"
)

// FirstVolumeExt is the extension marking the canonical first volume
const FirstVolumeExt = ".rar"

var (
	memberExt  = regexp.MustCompile(`\.(rar|r\d{2,3})$`)
	partSuffix = regexp.MustCompile(`(?i)\.part\d{1,3}$`)
)

// Set holds the volumes sharing the same base name
type Set struct {
	// Base is the path with the archive extension and part suffix removed
	Base string
	// Members in the order they were encountered
	Members []string
}

// IsMember reports whether path looks like a volume of a RAR set
func IsMember(path string) bool {
	return memberExt.MatchString(path)
}

// Base returns the normalized base of a volume path. ok is false if path
// is not a volume.
func Base(path string) (base string, ok bool) {
	if !IsMember(path) {
		return "", false
	}
	base = memberExt.ReplaceAllString(path, "")
	return partSuffix.ReplaceAllString(base, ""), true
}

// Group classifies files and groups volumes by base. Sets are returned in
// order of the first volume seen for each base.
func Group(files []string) []Set {
	var sets []Set
	index := make(map[string]int)
	for _, file := range files {
		base, ok := Base(file)
		if !ok {
			continue
		}
		i, found := index[base]
		if !found {
			i = len(sets)
			index[base] = i
			sets = append(sets, Set{Base: base})
		}
		sets[i].Members = append(sets[i].Members, file)
	}
	return sets
}

// StartingVolume returns the volume to hand to the extractor
func (s Set) StartingVolume() string {
	return StartingVolume(s.Members)
}

// StartingVolume picks the first volume of a set. A single .rar member wins,
// otherwise the lowest member in byte order is used. This fallback fits the
// .r00/.r01 and .partNN schemes but is not guaranteed for every naming.
func StartingVolume(members []string) string {
	if len(members) == 0 {
		return ""
	}

	var first string
	count := 0
	for _, m := range members {
		if strings.HasSuffix(m, FirstVolumeExt) {
			count++
			first = m
		}
	}
	if count == 1 {
		return first
	}

	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	return sorted[0]
}
