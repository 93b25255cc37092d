package project

import "time"

type MutationKind string

const (
	MutationRemoveClip MutationKind = "remove_clip"
	MutationEdit       MutationKind = "edit"
)

// Mutation is a locally applied change that the store has not confirmed yet.
// Proposed is the optimistic value to show right away; Rollback returns the
// value from before the change.
type Mutation struct {
	Kind     MutationKind
	Original Project
	Proposed Project
}

func (m Mutation) Rollback() Project {
	return m.Original.Clone()
}

// ProposeClipRemoval applies the removal locally without touching the store.
func ProposeClipRemoval(p Project, index int, now time.Time) (Mutation, error) {
	next, err := p.WithoutClip(index, now)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{Kind: MutationRemoveClip, Original: p.Clone(), Proposed: next}, nil
}

// Edit describes a metadata change. Nil fields are left as they are.
type Edit struct {
	Name         *string
	Soundtrack   *string
	Narration    *string
	ThumbnailURL *string
}

func (e Edit) IsEmpty() bool {
	return e.Name == nil && e.Soundtrack == nil && e.Narration == nil && e.ThumbnailURL == nil
}

func ProposeEdit(p Project, e Edit, now time.Time) Mutation {
	next := p.Clone()
	if e.Name != nil {
		next.Name = *e.Name
	}
	if e.Soundtrack != nil {
		next.Soundtrack = e.Soundtrack
	}
	if e.Narration != nil {
		next.Narration = e.Narration
	}
	if e.ThumbnailURL != nil {
		next.ThumbnailURL = e.ThumbnailURL
	}
	next.Touch(now)
	return Mutation{Kind: MutationEdit, Original: p.Clone(), Proposed: next}
}
