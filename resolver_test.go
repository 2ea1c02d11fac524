package ixa

import (
	"errors"
	"testing"
)

func TestDerivedResolution(t *testing.T) {
	age := FactoryNewProperty[Age]()
	computeCalls := 0
	adult := FactoryNewDerivedProperty(func(ctx *Context, entity EntityID) (Adult, error) {
		computeCalls++
		a, err := age.Value(ctx, entity)
		if err != nil {
			return false, err
		}
		return a >= 18, nil
	}, age)

	registry := Factory.NewRegistry()
	if err := registry.Register(age, adult); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ctx, err := Factory.NewContext(registry)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	entity, err := ctx.CreateEntity()
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	// The dependency is unset, so the computation's miss propagates and
	// nothing is cached.
	var missing MissingInputError
	if _, err := adult.Resolve(ctx, entity); !errors.As(err, &missing) {
		t.Fatalf("Resolve() with unset dependency error = %v, want MissingInputError", err)
	}
	if computeCalls != 1 {
		t.Fatalf("Compute ran %d times, want 1", computeCalls)
	}

	if err := age.Set(ctx, entity, 20); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, err := adult.Resolve(ctx, entity)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v != true {
		t.Errorf("Resolve() = %v, want true", v)
	}
	if computeCalls != 2 {
		t.Fatalf("Compute ran %d times, want 2", computeCalls)
	}

	// Cache hit: no recomputation
	if _, err := adult.Resolve(ctx, entity); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if computeCalls != 2 {
		t.Errorf("Cache hit recomputed: compute ran %d times, want 2", computeCalls)
	}

	// A dependency rewrite drops the cache; the next resolution recomputes
	if err := age.Set(ctx, entity, 10); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, err = adult.Resolve(ctx, entity)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v != false {
		t.Errorf("Resolve() after rewrite = %v, want false", v)
	}
	if computeCalls != 3 {
		t.Errorf("Compute ran %d times, want 3", computeCalls)
	}
}

func TestDerivedChain(t *testing.T) {
	age := FactoryNewProperty[Age]()
	adultCalls, seniorCalls := 0, 0
	adult := FactoryNewDerivedProperty(func(ctx *Context, entity EntityID) (Adult, error) {
		adultCalls++
		a, err := age.Value(ctx, entity)
		if err != nil {
			return false, err
		}
		return a >= 18, nil
	}, age)
	senior := FactoryNewDerivedProperty(func(ctx *Context, entity EntityID) (Senior, error) {
		seniorCalls++
		isAdult, err := adult.Resolve(ctx, entity)
		if err != nil || !isAdult {
			return false, err
		}
		a, err := age.Value(ctx, entity)
		if err != nil {
			return false, err
		}
		return a >= 65, nil
	}, adult, age)

	registry := Factory.NewRegistry()
	if err := registry.Register(age, adult, senior); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ctx, err := Factory.NewContext(registry)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	entity, err := ctx.CreateEntity(age.Init(70))
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	// Resolving the outer property resolves and caches the inner one
	v, err := senior.Resolve(ctx, entity)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v != true {
		t.Errorf("Resolve() = %v, want true", v)
	}
	if adultCalls != 1 || seniorCalls != 1 {
		t.Errorf("Compute calls = (%d, %d), want (1, 1)", adultCalls, seniorCalls)
	}
	if _, err := adult.Resolve(ctx, entity); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if adultCalls != 1 {
		t.Errorf("Inner compute reran after chained resolution: %d calls", adultCalls)
	}

	// Rewriting the root input invalidates the whole chain
	if err := age.Set(ctx, entity, 40); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, err = senior.Resolve(ctx, entity)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v != false {
		t.Errorf("Resolve() after rewrite = %v, want false", v)
	}
	if adultCalls != 2 || seniorCalls != 2 {
		t.Errorf("Compute calls after rewrite = (%d, %d), want (2, 2)", adultCalls, seniorCalls)
	}
}

func TestDerivedGlobalDependency(t *testing.T) {
	rate := FactoryNewGlobalProperty[Transmission]()
	age := FactoryNewProperty[Age]()
	risk := FactoryNewDerivedProperty(func(ctx *Context, entity EntityID) (RiskLevel, error) {
		r, err := rate.Value(ctx)
		if err != nil {
			return LowRisk, err
		}
		a, err := age.Value(ctx, entity)
		if err != nil {
			return LowRisk, err
		}
		if r > 0.4 && a >= 65 {
			return HighRisk, nil
		}
		return LowRisk, nil
	}, rate, age)

	registry := Factory.NewRegistry()
	if err := registry.Register(rate, age, risk); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ctx, err := Factory.NewContext(registry)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	young, err := ctx.CreateEntity(age.Init(30))
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	old, err := ctx.CreateEntity(age.Init(80))
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	if err := rate.Set(ctx, 0.2); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	for _, entity := range []EntityID{young, old} {
		v, err := risk.Resolve(ctx, entity)
		if err != nil {
			t.Fatalf("Resolve(%d) error = %v", entity, err)
		}
		if v != LowRisk {
			t.Errorf("Resolve(%d) = %v, want LowRisk", entity, v)
		}
	}

	// A global rewrite stales the cached value for every entity
	if err := rate.Set(ctx, 0.6); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, _ := risk.Resolve(ctx, young); v != LowRisk {
		t.Errorf("Resolve(young) = %v, want LowRisk", v)
	}
	if v, _ := risk.Resolve(ctx, old); v != HighRisk {
		t.Errorf("Resolve(old) = %v, want HighRisk", v)
	}
}

func TestDerivedComputeError(t *testing.T) {
	boom := errors.New("boom")
	age := FactoryNewProperty[Age]()
	faulty := FactoryNewDerivedProperty(func(ctx *Context, entity EntityID) (Adult, error) {
		return false, boom
	}, age)

	registry := Factory.NewRegistry()
	if err := registry.Register(age, faulty); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ctx, err := Factory.NewContext(registry)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	entity, err := ctx.CreateEntity(age.Init(30))
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	if _, err := faulty.Resolve(ctx, entity); !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want boom", err)
	}
	// Failures are not cached; resolution retries
	if _, err := faulty.Resolve(ctx, entity); !errors.Is(err, boom) {
		t.Errorf("Second Resolve() error = %v, want boom", err)
	}
}
