/*
Package ixa provides the state-management runtime for entity-based
simulations: a per-run Context owning a population of entities, each of
which carries arbitrary typed properties behind a single type-erased store.

Properties come in three classifications. Simple properties are explicitly
assigned and read back; derived properties are computed on demand from a
declared dependency set and cached per entity; global properties belong to
the Context itself rather than to any entity. Queries filter, project, and
count over the population, triggering lazy derived resolution for any
property they touch.

Core Concepts:

  - Context: the top-level owner of entities, property slots, and the
    global slot for one simulation run.
  - Property handle: a typed, registered identity for one property type.
  - Registry: maps property types to stable identifiers and dependency
    metadata; sealed after the start-up registration phase.
  - Query: a self-executing object (Filter, Count, Project) run against the
    population.

Basic Usage:

	// Define property handles
	age := ixa.FactoryNewProperty[Age]()
	adult := ixa.FactoryNewDerivedProperty(func(ctx *ixa.Context, e ixa.EntityID) (Adult, error) {
		a, err := age.Value(ctx, e)
		if err != nil {
			return false, err
		}
		return Adult(a >= 18), nil
	}, age)

	// Register and build a context
	registry := ixa.Factory.NewRegistry()
	registry.Register(age, adult)
	ctx, _ := ixa.Factory.NewContext(registry)

	// Create entities and assign values
	e, _ := ctx.CreateEntity(age.Init(Age(30)))
	age.Set(ctx, e, Age(31))

	// Query the population
	adults, _ := ixa.Filter{Clauses: []ixa.Clause{ixa.Where(adult, Adult(true))}}.Execute(ctx)

Simulation schedulers, random-number distributions, and configuration
loading are external collaborators: they drive entity creation and supply
initial values, while this package provides the property and query
substrate underneath.
*/
package ixa
