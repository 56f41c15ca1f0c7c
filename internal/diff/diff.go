package diff

// Report describes the differences between a local and a remote migration list.
type Report struct {
	MissingOnRemote []string `json:"missing_on_remote"`
	ExtraOnRemote   []string `json:"extra_on_remote"`
	OrderErrors     []string `json:"order_errors"`
	LocalCount      int      `json:"local_count"`
	RemoteCount     int      `json:"remote_count"`
}

// Compare builds a report between the local list (committed files) and the
// remote list (applied on an environment). Both lists must already be
// deduplicated; their order is significant.
func Compare(local, remote []string) Report {
	return Report{
		MissingOnRemote: difference(local, remote),
		ExtraOnRemote:   difference(remote, local),
		OrderErrors:     orderErrors(local, remote),
		LocalCount:      len(local),
		RemoteCount:     len(remote),
	}
}

// HasDrift reports whether the report contains any discrepancy.
func (r Report) HasDrift() bool {
	return len(r.MissingOnRemote) > 0 || len(r.ExtraOnRemote) > 0 || len(r.OrderErrors) > 0
}

// orderErrors walks local in order and flags every migration whose remote
// position is lower than the one of the previously matched local migration.
// Local migrations the remote never applied do not move the cursor.
func orderErrors(local, remote []string) []string {
	position := make(map[string]int, len(remote))
	for i, name := range remote {
		if _, ok := position[name]; !ok {
			position[name] = i
		}
	}

	out := []string{}
	last := -1
	for _, name := range local {
		idx, ok := position[name]
		if !ok {
			continue
		}
		if idx < last {
			out = append(out, name)
		}
		last = idx
	}
	return out
}

func difference(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := []string{}
	for _, v := range a {
		if _, ok := set[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
