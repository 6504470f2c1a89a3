package confdiff

import (
	"path/filepath"
	"slices"

	f "github.com/confdiff/confdiff/pkg/functional"
)

// Match pairs components present in both scanned trees and, within each
// paired component, files sharing the same base filename. Components with
// files on only one side are reported as old-only or new-only instead of
// being partially paired. Returned slices are sorted so the result does not
// depend on map iteration order.
//
// A base filename appearing at multiple depths within one component
// collapses into a single entry per side; the deepest-scanned path wins.
func Match(oldComponents, newComponents map[string][]string) ScanResult {
	result := ScanResult{
		MatchedPairs: []FilePair{},
		OldOnly:      []string{},
		NewOnly:      []string{},
	}

	all := f.NewSet[string]()
	for name := range oldComponents {
		all.Add(name)
	}
	for name := range newComponents {
		all.Add(name)
	}
	names := all.Items()
	slices.Sort(names)

	for _, name := range names {
		oldFiles, inOld := oldComponents[name]
		newFiles, inNew := newComponents[name]
		if inOld && !inNew {
			result.OldOnly = append(result.OldOnly, name)
			continue
		}
		if !inOld && inNew {
			result.NewOnly = append(result.NewOnly, name)
			continue
		}

		oldByName := fileIndex(oldFiles)
		newByName := fileIndex(newFiles)

		common := f.Intersection(keys(oldByName), keys(newByName))
		slices.Sort(common)

		for _, fileName := range common {
			result.MatchedPairs = append(result.MatchedPairs, FilePair{
				ComponentName:  name,
				ConfigFileName: fileName,
				OldPath:        oldByName[fileName],
				NewPath:        newByName[fileName],
			})
		}
	}
	return result
}

// fileIndex maps base filenames to their full paths, flattening directory
// depth within a component.
func fileIndex(paths []string) map[string]string {
	index := make(map[string]string, len(paths))
	for _, path := range paths {
		index[filepath.Base(path)] = path
	}
	return index
}

func keys(m map[string]string) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	return ks
}
