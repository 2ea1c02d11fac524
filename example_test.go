package ixa_test

import (
	"fmt"

	ixa "github.com/RobertJacobsonCDC/ixa-core"
)

type Age uint8

type Adult bool

type Transmission float64

func Example_basic() {
	age := ixa.FactoryNewProperty[Age]().Required()
	adult := ixa.FactoryNewDerivedProperty(func(ctx *ixa.Context, e ixa.EntityID) (Adult, error) {
		a, err := age.Value(ctx, e)
		if err != nil {
			return false, err
		}
		return a >= 18, nil
	}, age)

	registry := ixa.Factory.NewRegistry()
	if err := registry.Register(age, adult); err != nil {
		panic(err)
	}
	ctx, err := ixa.Factory.NewContext(registry)
	if err != nil {
		panic(err)
	}

	for _, a := range []Age{12, 30, 45} {
		if _, err := ctx.CreateEntity(age.Init(a)); err != nil {
			panic(err)
		}
	}

	adults, err := ixa.Filter{Clauses: []ixa.Clause{ixa.Where(adult, Adult(true))}}.Execute(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println("adults:", adults)

	// Rewriting a dependency is reflected on the next query
	if err := age.Set(ctx, adults[0], 10); err != nil {
		panic(err)
	}
	n, err := ixa.Count{Clauses: []ixa.Clause{ixa.Where(adult, Adult(true))}}.Execute(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println("adults after rewrite:", n)

	// Output:
	// adults: [1 2]
	// adults after rewrite: 1
}

func Example_projection() {
	age := ixa.FactoryNewProperty[Age]()
	rate := ixa.FactoryNewGlobalProperty[Transmission]()

	registry := ixa.Factory.NewRegistry()
	if err := registry.Register(age, rate); err != nil {
		panic(err)
	}
	ctx, err := ixa.Factory.NewContext(registry)
	if err != nil {
		panic(err)
	}
	if err := rate.Set(ctx, 0.35); err != nil {
		panic(err)
	}
	for _, a := range []Age{70, 8, 33} {
		if _, err := ctx.CreateEntity(age.Init(a)); err != nil {
			panic(err)
		}
	}

	elderly, err := ixa.Project[Age]{
		From:    age,
		Clauses: []ixa.Clause{ixa.WhereFn(age, func(a Age) bool { return a >= 65 })},
	}.Execute(ctx)
	if err != nil {
		panic(err)
	}
	for _, p := range elderly {
		fmt.Printf("entity %d age %d\n", p.Entity, p.Value)
	}

	r, err := rate.Value(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println("rate:", r)

	// Output:
	// entity 0 age 70
	// rate: 0.35
}
