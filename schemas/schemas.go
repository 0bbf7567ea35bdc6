// Package schemas holds the JSON Schemas of the documents the agent reads and writes.
package schemas

import _ "embed"

// Profile is the schema of a user profile document.
//
//go:embed profile.schema.json
var Profile string

// JobRecord is the schema of an extracted job record.
//
//go:embed job_record.schema.json
var JobRecord string
