// Package flowcompiler translates declarative flow specifications into
// executable job plans.
//
// # Overview
//
// A Flow is a user-authored, declarative pipeline description. Compiling a
// flow produces a directed acyclic graph of JobExecutionPlans, each binding
// one fully materialized JobSpec to the TopologySpec (execution environment)
// chosen to run it.
//
// # Architecture
//
//	┌──────────────┐   spec catalog notifications    ┌──────────────────┐
//	│ Spec Catalog │ ──────────────────────────────> │ TopologyRegistry │
//	└──────────────┘   OnAdd / OnUpdate / OnDelete   └────────┬─────────┘
//	                                                          │ Snapshot()
//	┌──────────────┐        CompileFlow()            ┌────────▼─────────┐
//	│    Caller    │ ──────────────────────────────> │   SpecCompiler   │
//	└──────────────┘   Dag[JobExecutionPlan]         │ (identity or     │
//	                                                 │  multi-hop)      │
//	                                                 └────────┬─────────┘
//	                                                          │ Resolve()
//	                                                 ┌────────▼─────────┐
//	                                                 │ Template Catalog │
//	                                                 └──────────────────┘
//
// Package layout:
//
//   - config: ordered, nested key-value configuration with path lookup
//   - spec: FlowSpec, TopologySpec, JobSpec, JobExecutionPlan
//   - dag: generic directed acyclic graph
//   - template: job template catalog (in-memory and filesystem backed)
//   - registry: concurrent topology registry with listener contract
//   - compiler: identity and multi-hop flow compilers with instrumentation
//   - metric: Prometheus metrics registry and exposition handler
//   - errors: classified error wrapping shared across packages
//
// Compilation is synchronous and side-effect free with respect to the input
// FlowSpec. Each compile call works against a point-in-time snapshot of the
// topology registry; registry mutations committed after the snapshot never
// affect an in-flight compile.
package flowcompiler
