package authcore

// Changeset is a pending-change container: a base record paired with
// proposed, not-yet-committed field updates and per-field validation errors.
//
// Changesets are immutable values. Change, WithStagedValue, and
// WithFieldError return modified copies and never touch the receiver, so a
// changeset held by the caller is unaffected by anything the engine does
// with it.
type Changeset struct {
	base    Record
	changes map[string]any
	errors  map[string][]string
}

// NewChangeset creates a changeset over the given base record with no
// proposed changes. A nil base is treated as an empty record.
func NewChangeset(base Record) *Changeset {
	return &Changeset{
		base:    base,
		changes: map[string]any{},
		errors:  map[string][]string{},
	}
}

func (c *Changeset) clone() *Changeset {
	next := &Changeset{
		base:    c.base,
		changes: make(map[string]any, len(c.changes)+1),
		errors:  make(map[string][]string, len(c.errors)+1),
	}
	for k, v := range c.changes {
		next.changes[k] = v
	}
	for k, v := range c.errors {
		msgs := make([]string, len(v))
		copy(msgs, v)
		next.errors[k] = msgs
	}
	return next
}

// Change returns a copy of the changeset with value proposed for field.
func (c *Changeset) Change(field string, value any) *Changeset {
	next := c.clone()
	next.changes[field] = value
	return next
}

// WithStagedValue is Change under the name used by the hashing step: it
// stages a computed value (typically a hashed password) as the proposed
// value of field.
func (c *Changeset) WithStagedValue(field string, value any) *Changeset {
	return c.Change(field, value)
}

// WithFieldError returns a copy of the changeset with message appended to
// the validation errors of field.
func (c *Changeset) WithFieldError(field, message string) *Changeset {
	next := c.clone()
	next.errors[field] = append(next.errors[field], message)
	return next
}

// ProposedValue reports the proposed value of field. The second return is
// false when no change is proposed for that field; base-record values are
// never consulted.
func (c *Changeset) ProposedValue(field string) (any, bool) {
	v, ok := c.changes[field]
	return v, ok
}

func (c *Changeset) proposedString(field string) string {
	s, _ := c.changes[field].(string)
	return s
}

// Base returns the underlying base record.
func (c *Changeset) Base() Record {
	return c.base
}

// Changes returns a copy of the proposed field updates.
func (c *Changeset) Changes() map[string]any {
	out := make(map[string]any, len(c.changes))
	for k, v := range c.changes {
		out[k] = v
	}
	return out
}

// ErrorsOn returns a copy of the validation errors recorded for field.
func (c *Changeset) ErrorsOn(field string) []string {
	v, ok := c.errors[field]
	if !ok {
		return nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// HasErrors reports whether any field carries a validation error.
func (c *Changeset) HasErrors() bool {
	return len(c.errors) > 0
}

// Apply returns a new record merging the base record with the proposed
// changes. Transient fields (such as a plaintext password proposal) ride
// along; callers persisting the result are responsible for dropping them.
func (c *Changeset) Apply() Record {
	out := c.base.clone()
	if out == nil {
		out = make(Record, len(c.changes))
	}
	for k, v := range c.changes {
		out[k] = v
	}
	return out
}
