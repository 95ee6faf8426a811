// Package reconcile merges two replicas of a collection. The local replica
// always wins for a shared key; there is no timestamp comparison.
package reconcile

import "github.com/MrJamesThe3rd/pocket/internal/record"

// Merge returns every element of local plus the elements of remote whose key
// is not present locally. Elements keep the position of their key's first
// appearance in remote; local-only keys follow in local order.
//
// Deletions are not tracked: an element removed locally but still present in
// remote comes back.
func Merge[T any, K comparable](local, remote []T, key func(T) K) []T {
	index := make(map[K]int, len(remote)+len(local))
	out := make([]T, 0, len(remote)+len(local))

	put := func(v T) {
		k := key(v)
		if i, ok := index[k]; ok {
			out[i] = v
			return
		}

		index[k] = len(out)
		out = append(out, v)
	}

	for _, v := range remote {
		put(v)
	}

	for _, v := range local {
		put(v)
	}

	return out
}

// Records merges record collections by ID.
func Records(local, remote []record.Record) []record.Record {
	return Merge(local, remote, func(r record.Record) int64 { return r.ID })
}
