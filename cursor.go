package ixa

import (
	"slices"

	iter_util "github.com/TheBitDrifter/util/iter"
)

func newCursor(ctx *Context, clauses []Clause) *Cursor {
	return &Cursor{
		ctx:     ctx,
		clauses: clauses,
	}
}

// Next advances to the next matching entity, evaluating clauses as it
// goes. After Next returns false, check Err before trusting the result
// set.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	if c.err != nil {
		return false
	}
	for c.pos < len(c.candidates) {
		entity := c.candidates[c.pos]
		c.pos++
		ok, err := matchClauses(c.ctx, entity, c.clauses)
		if err != nil {
			c.err = err
			return false
		}
		if ok {
			c.current = entity
			return true
		}
	}
	return false
}

func (c *Cursor) Entity() EntityID {
	return c.current
}

func (c *Cursor) Err() error {
	return c.err
}

func (c *Cursor) Reset() {
	c.candidates = nil
	c.pos = 0
	c.current = 0
	c.initialized = false
	c.err = nil
}

func (c *Cursor) initialize() {
	c.initialized = true

	// Refresh the index behind each equality clause, then seed candidates
	// from the smallest index entry. Candidates are re-verified by clause
	// evaluation, which also covers hash collisions.
	var best map[EntityID]struct{}
	bestFound := false
	for _, clause := range c.clauses {
		if clause.kind != clauseEquals {
			continue
		}
		id, err := c.ctx.registry.idFor(clause.prop)
		if err != nil {
			c.err = err
			return
		}
		vi := c.ctx.indexes.index(id)
		if vi == nil {
			continue
		}
		if err := c.ctx.indexes.refresh(c.ctx, id); err != nil {
			c.err = err
			return
		}
		set := vi.lookup[clause.hash]
		if len(set) == 0 {
			// The intersection is already empty.
			c.candidates = nil
			return
		}
		if !bestFound || len(set) < len(best) {
			best = set
			bestFound = true
		}
	}

	if bestFound {
		c.candidates = make([]EntityID, 0, len(best))
		for entity := range best {
			c.candidates = append(c.candidates, entity)
		}
		// Results are reported in creation order regardless of which
		// index seeded them.
		slices.Sort(c.candidates)
		return
	}
	c.candidates = iter_util.Collect(c.ctx.Entities())
}
