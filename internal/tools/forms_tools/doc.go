// Package forms_tools exposes Google Forms operations as MCP tools:
// creating forms, adding and updating questions, reading responses and
// controlling publish state, including making a form publicly accessible
// through a Drive permission.
package forms_tools
