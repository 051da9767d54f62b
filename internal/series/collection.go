package series

import (
	"errors"
	"sync"

	"github.com/quartzlab/tephra/internal/timeunit"
)

// maxParallelConversions bounds the worker pool used for collection
// conversion. Member conversions are independent, so they run
// concurrently up to this limit.
const maxParallelConversions = 8

// Collection is an ordered set of series sharing, optionally, one time
// unit. TimeUnit is empty while members carry heterogeneous units and is
// set to the shared target label after a collection-wide conversion.
type Collection struct {
	Members  []Series
	TimeUnit string
}

// MemberResult reports the outcome of converting one collection member.
// Reordering is per-member: a member already ascending under the target
// convention is not reversed even when a sibling is.
type MemberResult struct {
	ID        string
	Reordered bool
	Err       error
}

// New builds a collection from independently-built series. When timeUnit
// is non-empty every member is converted to it immediately, mirroring
// ConvertTimeUnit; when empty the members are kept exactly as given.
func New(members []Series, timeUnit string) (Collection, []MemberResult, error) {
	c := Collection{Members: cloneMembers(members)}
	if timeUnit == "" {
		return c, nil, nil
	}
	return c.ConvertTimeUnit(timeUnit)
}

// ConvertTimeUnit converts every member to the target unit label and
// returns the resulting collection plus one MemberResult per member, in
// member order. An empty target returns the collection unchanged.
//
// The target label is resolved once; if it is unrecognized nothing is
// converted and the resolver's error is returned. Member failures are
// isolated: a failing member keeps its original axis in the output, its
// result carries the error, and the aggregate error joins all member
// failures so none goes unreported. Successful siblings convert
// regardless.
func (c Collection) ConvertTimeUnit(target string) (Collection, []MemberResult, error) {
	out := Collection{Members: cloneMembers(c.Members), TimeUnit: c.TimeUnit}
	if target == "" {
		return out, nil, nil
	}
	if _, err := timeunit.Resolve(target); err != nil {
		return Collection{}, nil, err
	}

	results := make([]MemberResult, len(out.Members))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxParallelConversions)
	for i := range out.Members {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			m := out.Members[i]
			converted, reordered, err := m.ConvertTimeUnit(target)
			if err != nil {
				results[i] = MemberResult{ID: m.ID, Err: err}
				return
			}
			out.Members[i] = converted
			results[i] = MemberResult{ID: m.ID, Reordered: reordered}
		}(i)
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		return out, results, errors.Join(errs...)
	}

	out.TimeUnit = target
	return out, results, nil
}

func cloneMembers(members []Series) []Series {
	out := make([]Series, len(members))
	for i, m := range members {
		out[i] = m.Clone()
	}
	return out
}
