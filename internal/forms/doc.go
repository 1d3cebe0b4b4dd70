// Package forms wraps the Google Forms API.
//
// Form creation is split in two steps because the API only accepts the info
// title on create; descriptions go through batchUpdate afterwards. Question
// creation and updates take simplified specs and compile them into the
// batchUpdate request shapes the API expects, including per-field update
// masks for item updates.
package forms
