package goSession

import "reflect"

// MergeStrategy decides how a transactional write combines the stored value
// with the caller's data.
type MergeStrategy string

const (
	// MergeShallow overlays the new data on the stored value. Keys present
	// only in the stored value survive, which means a key this writer removed
	// comes back if it is still stored.
	MergeShallow MergeStrategy = "shallow"
	// MergeDiff replays only what this writer changed since its read-time
	// snapshot, including removals.
	MergeDiff MergeStrategy = "diff"
)

func (m MergeStrategy) valid() bool {
	return m == MergeShallow || m == MergeDiff
}

// Merge computes the value to commit. snapshot is only consulted by MergeDiff.
func (m MergeStrategy) Merge(stored, data, snapshot Data) Data {
	if m == MergeDiff {
		return Diff(snapshot, data).Apply(stored)
	}
	merged := stored.Clone()
	for k, v := range data {
		merged[k] = v
	}
	return merged
}

// Changes is the set of edits one writer made to a session.
type Changes struct {
	Set     Data
	Deleted []string
}

// Diff returns the edits that turn snapshot into current. With a nil
// snapshot every key of current counts as set and nothing as deleted.
func Diff(snapshot, current Data) Changes {
	c := Changes{Set: Data{}}
	for k, v := range current {
		if old, ok := snapshot[k]; ok && reflect.DeepEqual(old, v) {
			continue
		}
		c.Set[k] = v
	}
	for k := range snapshot {
		if _, ok := current[k]; !ok {
			c.Deleted = append(c.Deleted, k)
		}
	}
	return c
}

// Apply returns a copy of base with the changes applied.
func (c Changes) Apply(base Data) Data {
	out := base.Clone()
	for _, k := range c.Deleted {
		delete(out, k)
	}
	for k, v := range c.Set {
		out[k] = v
	}
	return out
}

// Empty reports whether the writer changed nothing.
func (c Changes) Empty() bool {
	return len(c.Set) == 0 && len(c.Deleted) == 0
}
