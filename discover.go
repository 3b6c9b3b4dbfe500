package rarchive

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var partVolumeRe = regexp.MustCompile(`(?i)(?P<prefix>.*?)(?P<sep>[_.-]?)(?:part)(?P<num>\d+)(?P<suffix>\.rar)`)

// DiscoverVolumes finds the sibling volumes of a multi-volume RAR set given
// its first volume's path, recognizing both "name.partNN.rar" and
// "name.rNN" naming conventions. It discovers volumes only; it does not
// follow header continuation between them (AggregateFiles groups
// same-named entries across parsed volumes, without chaining headers).
func DiscoverVolumes(first string) ([]string, error) {
	return DiscoverVolumesFS(defaultFS, first)
}

// DiscoverVolumesFS is DiscoverVolumes parameterized over a FileSystem, for
// use against virtual or in-memory filesystems in tests.
func DiscoverVolumesFS(fsys FileSystem, first string) ([]string, error) {
	base := filepath.Base(first)

	if m := partVolumeRe.FindStringSubmatch(base); m != nil {
		prefix, sep, num, suffix := m[1], m[2], m[3], m[4]
		width := len(num)
		dir := filepath.Dir(first)

		var vols []string
		for i := 1; i < 10000; i++ {
			name := fmt.Sprintf("%s%spart%0*d%s", prefix, sep, width, i, suffix)
			p := filepath.Join(dir, name)
			if _, err := fsys.Stat(p); err != nil {
				if i == 1 {
					return nil, fmt.Errorf("first volume not found: %s", p)
				}
				break
			}
			vols = append(vols, p)
		}
		return vols, nil
	}

	if strings.HasSuffix(strings.ToLower(base), ".rar") {
		prefix := strings.TrimSuffix(first, filepath.Ext(first))
		dir := filepath.Dir(first)

		var vols []string
		if _, err := fsys.Stat(first); err != nil {
			return nil, err
		}
		vols = append(vols, first)

		for i := 0; i < 1000; i++ {
			name := fmt.Sprintf("%s.r%02d", prefix, i)
			p := filepath.Join(dir, filepath.Base(name))
			if _, err := fsys.Stat(p); err != nil {
				break
			}
			vols = append(vols, p)
		}
		return vols, nil
	}

	return []string{first}, nil
}
