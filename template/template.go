// Package template provides the job template catalog: addressable,
// reusable job-configuration skeletons resolved by URI. The compiler treats
// any resolution failure as a hard compile failure, so catalogs distinguish
// only two conditions: template not found and template malformed.
package template

import "github.com/c360/flowcompiler/config"

// JobTemplate is a reusable job-configuration skeleton. At compile time its
// defaults are deep-merged underneath the flow-supplied configuration, so a
// flow's own values always win on collision.
type JobTemplate struct {
	// URI addresses the template within its catalog.
	URI string
	// Version is the template author's version tag.
	Version string
	// Description is free-form text for humans.
	Description string
	// Defaults holds the configuration the template contributes.
	Defaults *config.Config
}
