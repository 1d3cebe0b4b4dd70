// Package drive wraps the small slice of the Google Drive API the server
// needs: permission management on form files. Forms are Drive files, so
// publishing a form publicly means creating an "anyone" reader permission on
// the form ID.
package drive
