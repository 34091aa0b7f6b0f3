package spec

// Configuration keys shared between flow authors, the compiler and the
// execution runtime. Flow-scoped keys live under "flow.", job-scoped keys
// under "job.", topology-scoped keys under "topology.".
const (
	// KeyFlowName is the flow's short name within its group.
	KeyFlowName = "flow.name"
	// KeyFlowGroup is the namespace the flow belongs to.
	KeyFlowGroup = "flow.group"
	// KeyFlowExecutionID correlates every job compiled from one flow
	// compilation. Assigned by the compiler; a flow author may pin it.
	KeyFlowExecutionID = "flow.executionId"
	// KeyFlowSource names the logical source node of a multi-hop flow.
	KeyFlowSource = "flow.source"

	// KeyJobName and KeyJobGroup are injected into every compiled job,
	// copied from the flow name and group when present.
	KeyJobName  = "job.name"
	KeyJobGroup = "job.group"
	// KeyJobSchedule is the flow-level schedule. It is stripped from every
	// compiled job so a derived job can never self-schedule.
	KeyJobSchedule = "job.schedule"
	// KeyJobTopology pins a job to a topology by URI.
	KeyJobTopology = "job.topology"
	// KeyJobRequiredCapability restricts topology selection to topologies
	// advertising the named capability.
	KeyJobRequiredCapability = "job.requiredCapability"

	// KeyTopologyCapabilities lists the capability tags a topology
	// advertises for routing decisions.
	KeyTopologyCapabilities = "topology.capabilities"
)
