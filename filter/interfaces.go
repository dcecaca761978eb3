package filter

import (
	"context"
)

// Record is anything a filter can inspect. Field names returned by
// FilterFields become variables in filter expressions.
type Record interface {
	FilterFields() map[string]any
}

// Filter defines the basic interface for record filters
type Filter interface {
	// Evaluate checks if a record matches the filter criteria
	Evaluate(record Record) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string

	// Check evaluates the filter and reports runtime failures
	Check(record Record) (bool, error)
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// BatchResult represents the result of evaluating a filter
type BatchResult struct {
	FilterName string
	Matches    []Record
	Error      error
}

// WorkerPool defines the interface for concurrent work execution
type WorkerPool interface {
	// Submit submits work to the pool
	Submit(work func()) error

	// Stop gracefully stops the worker pool
	Stop(ctx context.Context) error
}
