package spec

import "fmt"

// JobExecutionPlan binds one compiled JobSpec to the TopologySpec selected
// to run it. Plans are the nodes of a compiled flow's DAG.
type JobExecutionPlan struct {
	Job      *JobSpec
	Topology TopologySpec
}

// String renders the plan for logs.
func (p JobExecutionPlan) String() string {
	return fmt.Sprintf("%s on %s", p.Job.URI, p.Topology.URI)
}
