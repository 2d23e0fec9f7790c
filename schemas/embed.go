// Package schemas embeds the JSON Schema files describing skillfolio payloads.
package schemas

import "embed"

// ResumeDraftSchema is the file name of the draft handoff schema
const ResumeDraftSchema = "resume_draft.schema.json"

//go:embed *.schema.json
var files embed.FS

// Read returns the content of an embedded schema file.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
