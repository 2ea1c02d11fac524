package ixa

import "fmt"

type UnregisteredPropertyError struct {
	Name string
}

func (e UnregisteredPropertyError) Error() string {
	return fmt.Sprintf("property is not registered: %s", e.Name)
}

type TypeMismatchError struct {
	Property string
	Expected string
	Actual   string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for property %s: stored %s, requested %s", e.Property, e.Expected, e.Actual)
}

type MissingInputError struct {
	Property string
}

func (e MissingInputError) Error() string {
	return fmt.Sprintf("property has no value: %s", e.Property)
}

type DependencyCycleError struct {
	Property string
}

func (e DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle through property: %s", e.Property)
}

type SealedRegistryError struct {
	Property string
}

func (e SealedRegistryError) Error() string {
	return fmt.Sprintf("registry is sealed, cannot register: %s", e.Property)
}

type ConflictingRegistrationError struct {
	Name string
}

func (e ConflictingRegistrationError) Error() string {
	return fmt.Sprintf("property already registered with different metadata: %s", e.Name)
}

type MissingRequiredError struct {
	Property string
}

func (e MissingRequiredError) Error() string {
	return fmt.Sprintf("missing initial value for required property: %s", e.Property)
}

type NoSuchEntityError struct {
	Entity EntityID
}

func (e NoSuchEntityError) Error() string {
	return fmt.Sprintf("no such entity: %d", e.Entity)
}

type PropertyLimitError struct {
	Property string
	Limit    uint32
}

func (e PropertyLimitError) Error() string {
	return fmt.Sprintf("property capacity %d exhausted (build with a wider mask to raise it), cannot register: %s", e.Limit, e.Property)
}

type DerivedWriteError struct {
	Property string
}

func (e DerivedWriteError) Error() string {
	return fmt.Sprintf("cannot set a derived property: %s", e.Property)
}
