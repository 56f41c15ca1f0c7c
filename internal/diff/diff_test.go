package diff

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCompareScenarios(t *testing.T) {
	const a, b = "20240101_a", "20240102_b"

	tests := []struct {
		name    string
		local   []string
		remote  []string
		missing []string
		extra   []string
		order   []string
	}{
		{name: "in sync", local: []string{a, b}, remote: []string{a, b}},
		{name: "missing on remote", local: []string{a, b}, remote: []string{a}, missing: []string{b}},
		{name: "extra on remote", local: []string{a}, remote: []string{a, b}, extra: []string{b}},
		{name: "swapped on remote", local: []string{a, b}, remote: []string{b, a}, order: []string{b}},
		{name: "empty local", local: nil, remote: []string{a, b}, extra: []string{a, b}},
		{name: "empty remote", local: []string{a, b}, remote: nil, missing: []string{a, b}},
		{name: "both empty", local: nil, remote: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compare(tt.local, tt.remote)
			assert.ElementsMatch(t, tt.missing, r.MissingOnRemote)
			assert.ElementsMatch(t, tt.extra, r.ExtraOnRemote)
			assert.ElementsMatch(t, tt.order, r.OrderErrors)
			assert.Equal(t, len(tt.local), r.LocalCount)
			assert.Equal(t, len(tt.remote), r.RemoteCount)

			drift := len(tt.missing)+len(tt.extra)+len(tt.order) > 0
			assert.Equal(t, drift, r.HasDrift())
		})
	}
}

func TestCompareKeepsSourceOrder(t *testing.T) {
	r := Compare(
		[]string{"1_a", "2_b", "3_c", "4_d"},
		[]string{"9_z", "1_a", "8_y", "4_d"},
	)
	assert.Equal(t, []string{"2_b", "3_c"}, r.MissingOnRemote)
	assert.Equal(t, []string{"9_z", "8_y"}, r.ExtraOnRemote)
	assert.Empty(t, r.OrderErrors)
}

func TestCompareUnmatchedLocalDoesNotMoveCursor(t *testing.T) {
	// "2_b" is not applied remotely, so "3_c" is compared against "1_a".
	r := Compare([]string{"1_a", "2_b", "3_c"}, []string{"1_a", "3_c"})
	assert.Equal(t, []string{"2_b"}, r.MissingOnRemote)
	assert.Empty(t, r.OrderErrors)
}

func TestCompareCursorFollowsLastMatch(t *testing.T) {
	// a is applied last remotely, so b is flagged. c is then compared
	// against b's position, not a's, and passes.
	r := Compare([]string{"1_a", "2_b", "3_c"}, []string{"2_b", "3_c", "1_a"})
	assert.Equal(t, []string{"2_b"}, r.OrderErrors)
}

func TestReportEmptyListsAreNotNil(t *testing.T) {
	r := Compare(nil, nil)
	assert.NotNil(t, r.MissingOnRemote)
	assert.NotNil(t, r.ExtraOnRemote)
	assert.NotNil(t, r.OrderErrors)
	assert.False(t, r.HasDrift())
}

func distinctNames() *rapid.Generator[[]string] {
	return rapid.SliceOfNDistinct(rapid.StringMatching(`[0-9]{4}_[a-z]{1,3}`), 0, 12, func(s string) string { return s })
}

func subset(t *rapid.T, pool []string, label string) []string {
	out := []string{}
	for _, name := range pool {
		if rapid.Bool().Draw(t, label+"/"+name) {
			out = append(out, name)
		}
	}
	return out
}

func TestCompareDisjointProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pool := distinctNames().Draw(t, "pool")
		local := subset(t, pool, "local")
		remote := subset(t, pool, "remote")

		r := Compare(local, remote)

		remoteSet := toSet(remote)
		localSet := toSet(local)
		for _, name := range r.MissingOnRemote {
			if _, ok := remoteSet[name]; ok {
				t.Fatalf("%s reported missing but present remotely", name)
			}
		}
		for _, name := range r.ExtraOnRemote {
			if _, ok := localSet[name]; ok {
				t.Fatalf("%s reported extra but present locally", name)
			}
		}
		if len(r.MissingOnRemote)+len(r.ExtraOnRemote) != len(symmetricDifference(localSet, remoteSet)) {
			t.Fatalf("missing+extra does not cover the symmetric difference")
		}
	})
}

func TestCompareIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		local := distinctNames().Draw(t, "local")
		remote := distinctNames().Draw(t, "remote")

		first := Compare(local, remote)
		second := Compare(local, remote)
		if !assert.ObjectsAreEqual(first, second) {
			t.Fatalf("reports differ: %+v vs %+v", first, second)
		}
	})
}

func TestCompareSameRelativeOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pool := distinctNames().Draw(t, "pool")
		sort.Strings(pool)
		local := subset(t, pool, "local")
		remote := subset(t, pool, "remote")

		if r := Compare(local, remote); len(r.OrderErrors) != 0 {
			t.Fatalf("unexpected order errors %v", r.OrderErrors)
		}
	})
}

func TestCompareMovedEarlierProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		local := rapid.SliceOfNDistinct(rapid.StringMatching(`[0-9]{4}_[a-z]{1,3}`), 2, 12, func(s string) string { return s }).Draw(t, "local")
		sort.Strings(local)

		from := rapid.IntRange(1, len(local)-1).Draw(t, "from")
		to := rapid.IntRange(0, from-1).Draw(t, "to")
		moved := local[from]

		remote := make([]string, 0, len(local))
		remote = append(remote, local[:from]...)
		remote = append(remote, local[from+1:]...)
		remote = append(remote[:to], append([]string{moved}, remote[to:]...)...)

		r := Compare(local, remote)
		if len(r.OrderErrors) != 1 || r.OrderErrors[0] != moved {
			t.Fatalf("moving %s from %d to %d gave order errors %v", moved, from, to, r.OrderErrors)
		}
		if len(r.MissingOnRemote) > 0 || len(r.ExtraOnRemote) > 0 {
			t.Fatalf("a reorder must not change membership: %+v", r)
		}
	})
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, v := range items {
		set[v] = struct{}{}
	}
	return set
}

func symmetricDifference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
