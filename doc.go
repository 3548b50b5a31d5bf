// Package main provides the entry point for the GoMedusa-Admin service.
// It initializes and runs a web server using the Fiber framework that adds
// role based access control, e-mail templates and customer insights on top
// of a Medusa commerce store's admin API. The application uses gorm for
// data persistence and talks to the host platform through its REST API.
package main
